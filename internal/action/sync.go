package action

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/minmind/minmind/internal/models"
	"github.com/minmind/minmind/internal/plan"
	"gorm.io/gorm"
)

// SyncResult reports what one sync run did.
type SyncResult struct {
	Found   int // actions parsed across all processed files
	New     int // rows created
	Updated int // rows updated
}

// Sync reconciles every plan file in dir against the stored action set.
//
// The file owns the existence and wording of an action; the database owns
// its historical state. Terminal rows are never mutated, and rows whose
// line number disappears from the file are never deleted. Each
// (source_file, line_number) pair is examined exactly once per run.
func Sync(db *gorm.DB, dir, pattern string) (SyncResult, error) {
	var result SyncResult

	info, err := os.Stat(dir)
	if err != nil {
		return result, fmt.Errorf("action: plans directory not found: %s", dir)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("action: not a directory: %s", dir)
	}

	parsed, err := plan.ScanDirectory(dir, pattern)
	if err != nil {
		return result, err
	}

	for _, p := range parsed {
		result.Found += len(p.Actions)
		created, updated, err := syncFile(db, p)
		result.New += created
		result.Updated += updated
		if err != nil {
			// Prior files stay persisted; sync is not transactional
			// across files.
			return result, err
		}
	}
	return result, nil
}

// syncFile reconciles one parse result against the rows anchored to that
// file. Parsed actions arrive in ascending line order.
func syncFile(db *gorm.DB, p plan.ParseResult) (created, updated int, err error) {
	existing, err := ListBySource(db, p.SourceFile)
	if err != nil {
		return 0, 0, err
	}
	byLine := make(map[int]models.UserAction, len(existing))
	for _, e := range existing {
		if e.LineNumber != nil {
			byLine[*e.LineNumber] = e
		}
	}

	for _, parsed := range p.Actions {
		e, ok := byLine[parsed.LineNumber]
		if !ok {
			a := models.UserAction{
				ID:         uuid.NewString(),
				Title:      parsed.Title,
				SourceFile: &p.SourceFile,
				LineNumber: &parsed.LineNumber,
				Status:     parsed.Status,
				CreatedAt:  time.Now(),
			}
			if parsed.Status == models.ActionCompleted {
				now := time.Now()
				a.CompletedAt = &now
			}
			if err := db.Create(&a).Error; err != nil {
				return created, updated, fmt.Errorf("action: sync create %s:%d: %w", p.SourceFile, parsed.LineNumber, err)
			}
			created++
			continue
		}

		// Terminal rows win over the file: a careless edit must not undo
		// recorded progress.
		if e.Status.Done() {
			continue
		}
		if e.Title == parsed.Title && e.Status == parsed.Status {
			continue
		}

		updates := map[string]interface{}{
			"title":  parsed.Title,
			"status": parsed.Status,
		}
		// The file may promote a row to terminal.
		if parsed.Status == models.ActionCompleted && e.CompletedAt == nil {
			now := time.Now()
			updates["completed_at"] = &now
		}
		if err := db.Model(&models.UserAction{}).Where("id = ?", e.ID).Updates(updates).Error; err != nil {
			return created, updated, fmt.Errorf("action: sync update %s:%d: %w", p.SourceFile, parsed.LineNumber, err)
		}
		updated++
	}
	return created, updated, nil
}
