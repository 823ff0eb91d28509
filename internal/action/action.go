// Package action provides user-action (todo) lifecycle operations and the
// plan-file sync engine.
package action

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minmind/minmind/internal/models"
	"github.com/minmind/minmind/internal/plan"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new action.
type CreateOpts struct {
	Title       string
	Description string
	SourceFile  string // optional plan file association
	LineNumber  int    // 0 means no line anchor
	Status      models.ActionStatus
}

// ListFilters holds optional filters for listing actions.
type ListFilters struct {
	Status     models.ActionStatus
	SourceFile string
}

// ValidTransitions maps each status to the statuses a user command may
// move it to. Terminal statuses are sticky: only file parsing during sync
// can reach them by promotion, never leave them.
var ValidTransitions = map[models.ActionStatus][]models.ActionStatus{
	models.ActionPending:    {models.ActionInProgress, models.ActionCompleted, models.ActionSkipped},
	models.ActionInProgress: {models.ActionCompleted, models.ActionSkipped},
	models.ActionCompleted:  {},
	models.ActionSkipped:    {},
}

// isValidTransition checks whether a status transition is allowed.
// Self-transitions are always permitted.
func isValidTransition(from, to models.ActionStatus) bool {
	if from == to {
		return true
	}
	for _, v := range ValidTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

// Create creates a new action with a fresh id.
func Create(db *gorm.DB, opts CreateOpts) (*models.UserAction, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return nil, fmt.Errorf("action: title is required")
	}
	if opts.Status == "" {
		opts.Status = models.ActionPending
	}

	a := models.UserAction{
		ID:          uuid.NewString(),
		Title:       opts.Title,
		Description: opts.Description,
		Status:      opts.Status,
		CreatedAt:   time.Now(),
	}
	if opts.SourceFile != "" {
		a.SourceFile = &opts.SourceFile
	}
	if opts.LineNumber > 0 {
		a.LineNumber = &opts.LineNumber
	}
	if opts.Status == models.ActionCompleted {
		now := time.Now()
		a.CompletedAt = &now
	}

	if err := db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("action: create: %w", err)
	}
	return &a, nil
}

// Get retrieves an action by its full id.
func Get(db *gorm.DB, id string) (*models.UserAction, error) {
	var a models.UserAction
	if err := db.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("action: not found: %s", id)
		}
		return nil, fmt.Errorf("action: get %s: %w", id, err)
	}
	return &a, nil
}

// List returns actions matching the given filters, oldest first.
func List(db *gorm.DB, filters ListFilters) ([]models.UserAction, error) {
	q := db.Model(&models.UserAction{})
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.SourceFile != "" {
		q = q.Where("source_file = ?", filters.SourceFile)
	}

	var actions []models.UserAction
	if err := q.Order("created_at ASC").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("action: list: %w", err)
	}
	return actions, nil
}

// ListBySource returns actions anchored to the given plan file, ordered by
// line number.
func ListBySource(db *gorm.DB, sourceFile string) ([]models.UserAction, error) {
	var actions []models.UserAction
	if err := db.Where("source_file = ?", sourceFile).
		Order("line_number ASC").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("action: list by source %s: %w", sourceFile, err)
	}
	return actions, nil
}

// Resolve finds an action by full id or unique id prefix. Zero matches and
// ambiguous prefixes are errors.
func Resolve(db *gorm.DB, idOrPrefix string) (*models.UserAction, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("action: empty id")
	}

	var exact models.UserAction
	err := db.Where("id = ?", idOrPrefix).First(&exact).Error
	if err == nil {
		return &exact, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("action: resolve %s: %w", idOrPrefix, err)
	}

	var matches []models.UserAction
	if err := db.Where("id LIKE ?", idOrPrefix+"%").Limit(2).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("action: resolve %s: %w", idOrPrefix, err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("action: not found: %s", idOrPrefix)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("action: ambiguous id prefix: %s", idOrPrefix)
	}
}

// Complete marks an action completed, sets completed_at, and writes the
// marker back to the source plan file.
func Complete(db *gorm.DB, idOrPrefix string) (*models.UserAction, error) {
	return setStatus(db, idOrPrefix, models.ActionCompleted)
}

// Start marks an action in progress and writes the marker back.
func Start(db *gorm.DB, idOrPrefix string) (*models.UserAction, error) {
	return setStatus(db, idOrPrefix, models.ActionInProgress)
}

// Skip marks an action skipped and writes the marker back.
func Skip(db *gorm.DB, idOrPrefix string) (*models.UserAction, error) {
	return setStatus(db, idOrPrefix, models.ActionSkipped)
}

// setStatus applies a user-commanded transition. The database write comes
// first; the plan-file rewrite is best-effort and never rolls the database
// back.
func setStatus(db *gorm.DB, idOrPrefix string, to models.ActionStatus) (*models.UserAction, error) {
	a, err := Resolve(db, idOrPrefix)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(a.Status, to) {
		return nil, fmt.Errorf("action: invalid transition from %q to %q for %s", a.Status, to, a.ID)
	}

	updates := map[string]interface{}{"status": to}
	if to == models.ActionCompleted && a.CompletedAt == nil {
		now := time.Now()
		updates["completed_at"] = &now
		a.CompletedAt = &now
	}
	if err := db.Model(&models.UserAction{}).Where("id = ?", a.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("action: update %s: %w", a.ID, err)
	}
	a.Status = to

	if err := writeBack(a); err != nil {
		log.Warn().Err(err).Str("action", a.ID).Msg("plan file write-back failed")
		return a, fmt.Errorf("action: %s updated in database, but plan file rewrite failed (run todo sync to reconcile): %w", a.ID, err)
	}
	return a, nil
}

// writeBack rewrites the action's marker in its source plan file. Actions
// without a file anchor, and anchors whose file no longer exists, are
// skipped silently.
func writeBack(a *models.UserAction) error {
	if a.SourceFile == nil || a.LineNumber == nil {
		return nil
	}
	path := *a.SourceFile
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	updated := plan.Rewrite(string(data), map[int]models.ActionStatus{*a.LineNumber: a.Status})
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
