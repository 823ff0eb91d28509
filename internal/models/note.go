package models

import (
	"fmt"
	"strings"
	"time"
)

// NoteType determines a note's purpose.
type NoteType string

const (
	NoteIdea      NoteType = "idea"      // a thought to develop
	NoteTask      NoteType = "task"      // something to execute
	NoteReference NoteType = "reference" // information to recall
	NoteLog       NoteType = "log"       // a record of what happened
)

func (t NoteType) String() string { return string(t) }

// ParseNoteType parses a note type name.
func ParseNoteType(s string) (NoteType, error) {
	switch strings.ToLower(s) {
	case "idea":
		return NoteIdea, nil
	case "task":
		return NoteTask, nil
	case "reference":
		return NoteReference, nil
	case "log":
		return NoteLog, nil
	}
	return "", fmt.Errorf("models: unknown note type: %q", s)
}

// NoteStatus is the state of an actionable note. Non-actionable notes
// carry no status.
type NoteStatus string

const (
	NoteActive    NoteStatus = "active"
	NoteCompleted NoteStatus = "completed"
	NoteArchived  NoteStatus = "archived"
)

func (s NoteStatus) String() string { return string(s) }

// Note is the atomic unit of information in the palace.
type Note struct {
	ID        string      `gorm:"primaryKey;size:36"`
	RoomID    string      `gorm:"size:36;not null;index"`
	Title     string      `gorm:"not null"`
	Content   string      `gorm:"type:text"`
	NoteType  NoteType    `gorm:"size:16;default:idea"`
	Status    *NoteStatus `gorm:"size:16"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Link is a directed connection between two notes, optionally typed
// (related, blocks, supports, references, derived_from).
type Link struct {
	ID        string  `gorm:"primaryKey;size:36"`
	SourceID  string  `gorm:"size:36;not null;index"`
	TargetID  string  `gorm:"size:36;not null;index"`
	LinkType  *string `gorm:"size:32"`
	CreatedAt time.Time
}
