package models

import (
	"fmt"
	"strings"
	"time"
)

// ActionStatus is the lifecycle state of a UserAction.
type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionInProgress ActionStatus = "in_progress"
	ActionCompleted  ActionStatus = "completed"
	ActionSkipped    ActionStatus = "skipped"
)

// Done reports whether the status is terminal (completed or skipped).
// Terminal rows are never mutated by plan sync.
func (s ActionStatus) Done() bool {
	return s == ActionCompleted || s == ActionSkipped
}

// Marker returns the canonical plan-file marker for this status.
func (s ActionStatus) Marker() string {
	switch s {
	case ActionInProgress:
		return "[USER:wip]"
	case ActionCompleted:
		return "[USER:done]"
	case ActionSkipped:
		return "[USER:skip]"
	default:
		return "[USER]"
	}
}

func (s ActionStatus) String() string { return string(s) }

// ParseActionStatus parses a status name, accepting the marker-suffix
// aliases (wip, done, skip) alongside the canonical names.
func ParseActionStatus(s string) (ActionStatus, error) {
	switch strings.ToLower(s) {
	case "pending":
		return ActionPending, nil
	case "in_progress", "inprogress", "wip":
		return ActionInProgress, nil
	case "completed", "done":
		return ActionCompleted, nil
	case "skipped", "skip":
		return ActionSkipped, nil
	}
	return "", fmt.Errorf("models: unknown action status: %q", s)
}

// UserAction is a task that requires human intervention. Most are extracted
// from plan files where they are marked with `- [USER]` syntax; those carry
// a source file and 1-based line number so status changes can be written
// back. Manual actions have no line number and are ignored by sync.
type UserAction struct {
	ID          string       `gorm:"primaryKey;size:36"`
	PlanID      *string      `gorm:"size:36"`
	SourceFile  *string      `gorm:"size:512;index:idx_actions_source_line"`
	LineNumber  *int         `gorm:"index:idx_actions_source_line"`
	Title       string       `gorm:"not null"`
	Description string       `gorm:"type:text"`
	Status      ActionStatus `gorm:"size:16;default:pending;index"`
	CreatedAt   time.Time
	CompletedAt *time.Time
}
