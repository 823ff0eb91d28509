package article

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minmind/minmind/internal/db"
	"github.com/minmind/minmind/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "minmind.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func createArticle(t *testing.T, gdb *gorm.DB, url string) *models.Article {
	t.Helper()
	a, err := Create(gdb, CreateOpts{URL: url, Title: "Test Article", Content: "Body text"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return a
}

func TestCreate_StartsPending(t *testing.T) {
	gdb := openTestDB(t)
	a := createArticle(t, gdb, "https://example.com/one")
	if a.Status != models.ArticlePending {
		t.Errorf("Status = %q, want pending", a.Status)
	}
	if a.Summary != nil {
		t.Error("new article should have no summary")
	}
}

func TestCreate_DuplicateURL(t *testing.T) {
	gdb := openTestDB(t)
	createArticle(t, gdb, "https://example.com/dup")
	if _, err := Create(gdb, CreateOpts{URL: "https://example.com/dup", Title: "Again"}); err == nil {
		t.Fatal("expected duplicate URL error")
	}
}

func TestSetSummary(t *testing.T) {
	gdb := openTestDB(t)
	a := createArticle(t, gdb, "https://example.com/one")

	if err := SetSummary(gdb, a, "A crisp summary"); err != nil {
		t.Fatalf("SetSummary: %v", err)
	}
	if a.Status != models.ArticleSummarized {
		t.Errorf("Status = %q, want summarized", a.Status)
	}
	if a.Summary == nil || *a.Summary != "A crisp summary" {
		t.Errorf("Summary = %v", a.Summary)
	}

	stored, err := Get(gdb, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.ArticleSummarized || stored.Summary == nil {
		t.Errorf("stored = %+v, summarized implies summary set", stored)
	}
}

func TestSetSummary_TerminalRefused(t *testing.T) {
	gdb := openTestDB(t)
	a := createArticle(t, gdb, "https://example.com/one")
	if err := Archive(gdb, a); err != nil {
		t.Fatal(err)
	}
	if err := SetSummary(gdb, a, "too late"); err == nil {
		t.Fatal("expected error summarizing archived article")
	}
}

func TestMarkReviewed_TerminalRefused(t *testing.T) {
	gdb := openTestDB(t)
	a := createArticle(t, gdb, "https://example.com/one")
	if err := MarkReviewed(gdb, a); err != nil {
		t.Fatalf("MarkReviewed: %v", err)
	}
	if err := MarkReviewed(gdb, a); err == nil {
		t.Fatal("expected error re-reviewing")
	}
	if err := SetSummary(gdb, a, "s"); err == nil {
		t.Fatal("expected error summarizing reviewed article")
	}
}

func TestArchive_AllowedFromAnyState(t *testing.T) {
	gdb := openTestDB(t)
	for i, setup := range []func(*models.Article){
		func(a *models.Article) {},
		func(a *models.Article) { SetSummary(gdb, a, "s") },
		func(a *models.Article) { MarkReviewed(gdb, a) },
	} {
		a := createArticle(t, gdb, "https://example.com/a"+string(rune('0'+i)))
		setup(a)
		if err := Archive(gdb, a); err != nil {
			t.Errorf("Archive from case %d: %v", i, err)
		}
		if a.Status != models.ArticleArchived {
			t.Errorf("case %d: status = %q", i, a.Status)
		}
	}
}

func TestNoteBody(t *testing.T) {
	summary := "S"
	withSummary := &models.Article{URL: "U", RawContent: "C", Summary: &summary}
	got := NoteBody(withSummary)
	want := "## Summary\n\nS\n\n## Source\n\nU\n\n## Full Content\n\nC"
	if got != want {
		t.Errorf("NoteBody(with summary) = %q, want %q", got, want)
	}

	without := &models.Article{URL: "U", RawContent: "C"}
	got = NoteBody(without)
	want = "## Source\n\nU\n\n## Content\n\nC"
	if got != want {
		t.Errorf("NoteBody(no summary) = %q, want %q", got, want)
	}
}

func TestApprove(t *testing.T) {
	gdb := openTestDB(t)
	room := models.Room{ID: "dddddddd-0000-4000-8000-000000000001", Name: "Reading"}
	if err := gdb.Create(&room).Error; err != nil {
		t.Fatal(err)
	}

	a := createArticle(t, gdb, "https://example.com/one")
	if err := SetSummary(gdb, a, "S"); err != nil {
		t.Fatal(err)
	}

	note, err := Approve(gdb, a, room.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if note.NoteType != models.NoteReference {
		t.Errorf("note type = %q, want reference", note.NoteType)
	}
	if note.Title != a.Title {
		t.Errorf("note title = %q, want %q", note.Title, a.Title)
	}
	if !strings.HasPrefix(note.Content, "## Summary\n\nS\n\n## Source\n\nhttps://example.com/one") {
		t.Errorf("note content = %q", note.Content)
	}
	if a.Status != models.ArticleReviewed {
		t.Errorf("article status = %q, want reviewed", a.Status)
	}

	var stored models.Note
	if err := gdb.Where("room_id = ?", room.ID).First(&stored).Error; err != nil {
		t.Fatalf("note not persisted: %v", err)
	}
}

func TestApprove_RequiresRoom(t *testing.T) {
	gdb := openTestDB(t)
	a := createArticle(t, gdb, "https://example.com/one")
	if _, err := Approve(gdb, a, ""); err == nil {
		t.Fatal("expected error approving without a room")
	}
	if a.Status != models.ArticlePending {
		t.Errorf("article mutated on failed approve: %q", a.Status)
	}
}

func TestResolve_Prefix(t *testing.T) {
	gdb := openTestDB(t)
	a := createArticle(t, gdb, "https://example.com/one")

	got, err := Resolve(gdb, a.ID[:8])
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("Resolve = %q, want %q", got.ID, a.ID)
	}

	if _, err := Resolve(gdb, "00000000"); err == nil {
		t.Error("expected not-found error")
	}
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(a *models.Article, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func TestSummarize_AppliesSummary(t *testing.T) {
	gdb := openTestDB(t)
	a := createArticle(t, gdb, "https://example.com/one")

	s := &fakeSummarizer{summary: "Generated"}
	if err := Summarize(gdb, s, a, "prompt"); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if a.Status != models.ArticleSummarized || a.Summary == nil || *a.Summary != "Generated" {
		t.Errorf("article = %+v", a)
	}
}

func TestSummarize_FailureLeavesArticleUnchanged(t *testing.T) {
	gdb := openTestDB(t)
	a := createArticle(t, gdb, "https://example.com/one")

	s := &fakeSummarizer{err: errors.New("model overloaded")}
	if err := Summarize(gdb, s, a, "prompt"); err == nil {
		t.Fatal("expected summarizer error")
	}

	stored, err := Get(gdb, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.ArticlePending || stored.Summary != nil {
		t.Errorf("article mutated on failure: %+v", stored)
	}
}

func TestSummarize_TerminalShortCircuits(t *testing.T) {
	gdb := openTestDB(t)
	a := createArticle(t, gdb, "https://example.com/one")
	if err := Archive(gdb, a); err != nil {
		t.Fatal(err)
	}

	s := &fakeSummarizer{summary: "x"}
	if err := Summarize(gdb, s, a, "prompt"); err == nil {
		t.Fatal("expected terminal-state error")
	}
	if s.calls != 0 {
		t.Errorf("summarizer invoked %d times for terminal article", s.calls)
	}
}
