package action

import (
	"os"
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

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from, to models.ActionStatus
		want     bool
	}{
		{models.ActionPending, models.ActionInProgress, true},
		{models.ActionPending, models.ActionCompleted, true},
		{models.ActionPending, models.ActionSkipped, true},
		{models.ActionPending, models.ActionPending, true},
		{models.ActionInProgress, models.ActionCompleted, true},
		{models.ActionInProgress, models.ActionSkipped, true},
		{models.ActionInProgress, models.ActionPending, false},
		{models.ActionCompleted, models.ActionPending, false},
		{models.ActionCompleted, models.ActionInProgress, false},
		{models.ActionCompleted, models.ActionSkipped, false},
		{models.ActionCompleted, models.ActionCompleted, true},
		{models.ActionSkipped, models.ActionCompleted, false},
		{models.ActionSkipped, models.ActionSkipped, true},
	}
	for _, tt := range tests {
		if got := isValidTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("isValidTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCreate_RequiresTitle(t *testing.T) {
	gdb := openTestDB(t)
	if _, err := Create(gdb, CreateOpts{Title: "   "}); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestCreate_Manual(t *testing.T) {
	gdb := openTestDB(t)
	a, err := Create(gdb, CreateOpts{Title: "Call the bank"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == "" || len(a.ID) != 36 {
		t.Errorf("ID = %q, want a UUID", a.ID)
	}
	if a.Status != models.ActionPending {
		t.Errorf("Status = %q, want pending", a.Status)
	}
	if a.SourceFile != nil || a.LineNumber != nil {
		t.Error("manual action should have no file anchor")
	}
}

func TestResolve(t *testing.T) {
	gdb := openTestDB(t)
	a, err := Create(gdb, CreateOpts{Title: "One"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(gdb, a.ID)
	if err != nil {
		t.Fatalf("Resolve(full id): %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("Resolve(full id) = %q, want %q", got.ID, a.ID)
	}

	got, err = Resolve(gdb, a.ID[:8])
	if err != nil {
		t.Fatalf("Resolve(prefix): %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("Resolve(prefix) = %q, want %q", got.ID, a.ID)
	}

	if _, err := Resolve(gdb, "ffffffff"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Resolve(miss) error = %v, want not found", err)
	}
}

func TestResolve_AmbiguousPrefix(t *testing.T) {
	gdb := openTestDB(t)
	for _, id := range []string{
		"aaaaaaaa-0000-4000-8000-000000000001",
		"aaaaaaaa-0000-4000-8000-000000000002",
	} {
		a := models.UserAction{ID: id, Title: "T", Status: models.ActionPending}
		if err := gdb.Create(&a).Error; err != nil {
			t.Fatal(err)
		}
	}
	if _, err := Resolve(gdb, "aaaa"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("Resolve(ambiguous) error = %v, want ambiguous", err)
	}
}

func TestComplete_SetsCompletedAt(t *testing.T) {
	gdb := openTestDB(t)
	a, err := Create(gdb, CreateOpts{Title: "Finish it"})
	if err != nil {
		t.Fatal(err)
	}

	done, err := Complete(gdb, a.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != models.ActionCompleted {
		t.Errorf("Status = %q", done.Status)
	}
	if done.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	stored, err := Get(gdb, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.ActionCompleted || stored.CompletedAt == nil {
		t.Errorf("stored action = %+v, want completed with timestamp", stored)
	}
}

func TestSkip_LeavesCompletedAtUnset(t *testing.T) {
	gdb := openTestDB(t)
	a, err := Create(gdb, CreateOpts{Title: "Optional step"})
	if err != nil {
		t.Fatal(err)
	}
	skipped, err := Skip(gdb, a.ID)
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if skipped.Status != models.ActionSkipped {
		t.Errorf("Status = %q", skipped.Status)
	}
	if skipped.CompletedAt != nil {
		t.Error("CompletedAt set on skip")
	}
}

func TestTerminalTransitionsRejected(t *testing.T) {
	gdb := openTestDB(t)
	a, err := Create(gdb, CreateOpts{Title: "Done deal"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Complete(gdb, a.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := Start(gdb, a.ID); err == nil {
		t.Error("Start on completed action should fail")
	}
	if _, err := Skip(gdb, a.ID); err == nil {
		t.Error("Skip on completed action should fail")
	}
}

func TestComplete_WritesMarkerBack(t *testing.T) {
	gdb := openTestDB(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.md")
	content := "# Plan\n- [ ] AI does this\n- [USER] Configure API keys\n- [USER:done] Review design\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Sync(gdb, dir, "*.md")
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.New != 2 {
		t.Fatalf("Sync created %d, want 2", result.New)
	}

	pending, err := List(gdb, ListFilters{Status: models.ActionPending})
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending actions, want 1", len(pending))
	}

	if _, err := Complete(gdb, pending[0].ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "# Plan\n- [ ] AI does this\n- [USER:done] Configure API keys\n- [USER:done] Review design\n"
	if string(data) != want {
		t.Errorf("file after write-back:\n%q\nwant:\n%q", data, want)
	}
}

func TestWriteBack_MissingFileIsNotAnError(t *testing.T) {
	gdb := openTestDB(t)
	src := filepath.Join(t.TempDir(), "gone.md")
	ln := 3
	a := models.UserAction{
		ID:         "bbbbbbbb-0000-4000-8000-000000000001",
		Title:      "Orphaned anchor",
		SourceFile: &src,
		LineNumber: &ln,
		Status:     models.ActionPending,
	}
	if err := gdb.Create(&a).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := Complete(gdb, a.ID); err != nil {
		t.Fatalf("Complete with missing file: %v", err)
	}
	stored, err := Get(gdb, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.ActionCompleted {
		t.Errorf("Status = %q, want completed", stored.Status)
	}
}
