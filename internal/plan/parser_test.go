package plan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/minmind/minmind/internal/models"
)

func TestParseMarkerLine(t *testing.T) {
	tests := []struct {
		line       string
		wantTitle  string
		wantStatus models.ActionStatus
		wantOK     bool
	}{
		{"- [USER] Configure API keys", "Configure API keys", models.ActionPending, true},
		{"- [USER:wip] Working on it", "Working on it", models.ActionInProgress, true},
		{"- [USER:inprogress] Alias one", "Alias one", models.ActionInProgress, true},
		{"- [USER:in_progress] Alias two", "Alias two", models.ActionInProgress, true},
		{"- [USER:done] Completed task", "Completed task", models.ActionCompleted, true},
		{"- [USER:completed] Also done", "Also done", models.ActionCompleted, true},
		{"- [USER:skip] Not needed", "Not needed", models.ActionSkipped, true},
		{"- [USER:skipped] Same thing", "Same thing", models.ActionSkipped, true},
		{"  - [USER] Indented action", "Indented action", models.ActionPending, true},
		{"\t- [USER] Tab indented", "Tab indented", models.ActionPending, true},
		{"[USER] No bullet", "No bullet", models.ActionPending, true},
		{"- [user:done] lowercase marker", "lowercase marker", models.ActionCompleted, true},
		{"- [User:Done] mixed case", "mixed case", models.ActionCompleted, true},
		{"- [USER]", "", "", false},            // empty title
		{"- [USER]   ", "", "", false},         // whitespace title
		{"- [USER broken", "", "", false},      // no closing bracket
		{"-[USER] no space after dash", "", "", false},
		{"- [ ] Regular checkbox", "", "", false},
		{"- [x] Checked item", "", "", false},
		{"Some regular text", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		got, ok := parseMarkerLine(tt.line, 1)
		if ok != tt.wantOK {
			t.Errorf("parseMarkerLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if got.Title != tt.wantTitle {
			t.Errorf("parseMarkerLine(%q) title = %q, want %q", tt.line, got.Title, tt.wantTitle)
		}
		if got.Status != tt.wantStatus {
			t.Errorf("parseMarkerLine(%q) status = %q, want %q", tt.line, got.Status, tt.wantStatus)
		}
	}
}

// Unknown [user:*] suffixes are accepted as pending rather than reported.
func TestParse_UnknownMarkerVariant(t *testing.T) {
	result := Parse("- [USER:someday] Maybe later", "p.md")
	if len(result.Actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(result.Actions))
	}
	if result.Actions[0].Status != models.ActionPending {
		t.Errorf("status = %q, want pending fallback", result.Actions[0].Status)
	}
}

func TestParse_MixedFile(t *testing.T) {
	content := "# Plan\n" +
		"- [ ] AI does this\n" +
		"- [USER] Configure API keys\n" +
		"- [USER:done] Review design\n" +
		"- [USER]\n"

	result := Parse(content, "plans/001.md")
	if result.SourceFile != "plans/001.md" {
		t.Errorf("SourceFile = %q", result.SourceFile)
	}
	want := []ParsedAction{
		{Title: "Configure API keys", LineNumber: 3, Status: models.ActionPending},
		{Title: "Review design", LineNumber: 4, Status: models.ActionCompleted},
	}
	if !reflect.DeepEqual(result.Actions, want) {
		t.Errorf("Actions = %+v, want %+v", result.Actions, want)
	}
}

func TestParse_CRLFNumbering(t *testing.T) {
	content := "# Plan\r\n- [USER] First\r\n- [USER:wip] Second\r\n"
	result := Parse(content, "p.md")
	if len(result.Actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(result.Actions))
	}
	if result.Actions[0].LineNumber != 2 || result.Actions[1].LineNumber != 3 {
		t.Errorf("line numbers = %d, %d; want 2, 3",
			result.Actions[0].LineNumber, result.Actions[1].LineNumber)
	}
	if result.Actions[0].Title != "First" {
		t.Errorf("title = %q (carriage return not stripped?)", result.Actions[0].Title)
	}
}

func TestRewrite_EmptyUpdatesIsIdentity(t *testing.T) {
	contents := []string{
		"",
		"- [USER] One\n- [USER:done] Two\n",
		"- [USER] One\r\n- [USER] Two\r\n",
		"mixed\r\nterminators\nhere",
		"no trailing newline",
	}
	for _, c := range contents {
		if got := Rewrite(c, nil); got != c {
			t.Errorf("Rewrite(%q, nil) = %q, want input unchanged", c, got)
		}
	}
}

func TestRewrite_UpdatesMarkers(t *testing.T) {
	content := "- [USER] Task one\n- [USER] Task two\n- [USER:wip] Task three"
	updates := map[int]models.ActionStatus{
		1: models.ActionCompleted,
		3: models.ActionSkipped,
	}
	got := Rewrite(content, updates)
	want := "- [USER:done] Task one\n- [USER] Task two\n- [USER:skip] Task three"
	if got != want {
		t.Errorf("Rewrite = %q, want %q", got, want)
	}
}

func TestRewrite_PreservesSurroundingBytes(t *testing.T) {
	content := "\t - [user:wip] Indented title with trailing spaces   \n"
	got := Rewrite(content, map[int]models.ActionStatus{1: models.ActionCompleted})
	want := "\t - [USER:done] Indented title with trailing spaces   \n"
	if got != want {
		t.Errorf("Rewrite = %q, want %q", got, want)
	}
}

func TestRewrite_PreservesCRLF(t *testing.T) {
	content := "- [USER] One\r\n- [USER] Two\r\n"
	got := Rewrite(content, map[int]models.ActionStatus{2: models.ActionInProgress})
	want := "- [USER] One\r\n- [USER:wip] Two\r\n"
	if got != want {
		t.Errorf("Rewrite = %q, want %q", got, want)
	}
}

func TestRewrite_LeavesNonMarkerLinesAlone(t *testing.T) {
	content := "# Heading\nplain text\n- [ ] checkbox\n"
	updates := map[int]models.ActionStatus{
		1: models.ActionCompleted,
		2: models.ActionCompleted,
		3: models.ActionCompleted,
	}
	if got := Rewrite(content, updates); got != content {
		t.Errorf("Rewrite = %q, want unchanged %q", got, content)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	content := "- [USER] a\r\n- [user:done] b\n- [USER:wip] c"
	updates := map[int]models.ActionStatus{
		1: models.ActionInProgress,
		2: models.ActionCompleted,
		3: models.ActionSkipped,
	}
	once := Rewrite(content, updates)
	twice := Rewrite(once, updates)
	if once != twice {
		t.Errorf("rewrite not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestParseRewriteRoundTrip(t *testing.T) {
	content := "# Plan\r\n" +
		"- [user] Alpha\r\n" +
		"text in between\n" +
		"- [USER:done] Beta\n" +
		"  - [USER:skip] Gamma\n"

	parsed := Parse(content, "p.md")
	updates := make(map[int]models.ActionStatus, len(parsed.Actions))
	for _, a := range parsed.Actions {
		updates[a.LineNumber] = a.Status
	}

	rewritten := Rewrite(content, updates)
	reparsed := Parse(rewritten, "p.md")
	if !reflect.DeepEqual(parsed.Actions, reparsed.Actions) {
		t.Errorf("round trip changed actions:\nbefore: %+v\nafter:  %+v",
			parsed.Actions, reparsed.Actions)
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.md", "- [USER] From a\n")
	write("b.md", "no markers here\n")
	write("c.txt", "- [USER] Wrong extension\n")

	results, err := ScanDirectory(dir, "*.md")
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (empty and non-md files dropped)", len(results))
	}
	if filepath.Base(results[0].SourceFile) != "a.md" {
		t.Errorf("SourceFile = %q, want a.md", results[0].SourceFile)
	}
}

func TestScanDirectory_MissingDir(t *testing.T) {
	if _, err := ScanDirectory(filepath.Join(t.TempDir(), "absent"), "*.md"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestScanDirectory_CustomPattern(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plan-1.md"), []byte("- [USER] x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("- [USER] y\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := ScanDirectory(dir, "plan-*.md")
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if len(results) != 1 || filepath.Base(results[0].SourceFile) != "plan-1.md" {
		t.Errorf("pattern filter failed: %+v", results)
	}
}
