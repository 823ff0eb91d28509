// Package note manages the atomic units of information stored inside
// rooms, plus the typed links connecting them.
package note

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minmind/minmind/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a note.
type CreateOpts struct {
	RoomID   string
	Title    string
	Content  string
	NoteType models.NoteType
}

// Create adds a note to a room. Task notes start active; other types
// carry no status.
func Create(db *gorm.DB, opts CreateOpts) (*models.Note, error) {
	if opts.RoomID == "" {
		return nil, fmt.Errorf("note: room is required")
	}
	if opts.Title == "" {
		return nil, fmt.Errorf("note: title is required")
	}
	if opts.NoteType == "" {
		opts.NoteType = models.NoteIdea
	}

	n := models.Note{
		ID:        uuid.NewString(),
		RoomID:    opts.RoomID,
		Title:     opts.Title,
		Content:   opts.Content,
		NoteType:  opts.NoteType,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if opts.NoteType == models.NoteTask {
		status := models.NoteActive
		n.Status = &status
	}

	if err := db.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("note: create %q: %w", opts.Title, err)
	}
	return &n, nil
}

// Get retrieves a note by id.
func Get(db *gorm.DB, id string) (*models.Note, error) {
	var n models.Note
	if err := db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("note: not found: %s", id)
		}
		return nil, fmt.Errorf("note: get %s: %w", id, err)
	}
	return &n, nil
}

// Resolve finds a note by exact id or unique id prefix.
func Resolve(db *gorm.DB, idOrPrefix string) (*models.Note, error) {
	var n models.Note
	err := db.First(&n, "id = ?", idOrPrefix).Error
	if err == nil {
		return &n, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("note: resolve %s: %w", idOrPrefix, err)
	}

	var matches []models.Note
	if err := db.Where("id LIKE ?", idOrPrefix+"%").Limit(2).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("note: resolve %s: %w", idOrPrefix, err)
	}
	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		return nil, fmt.Errorf("note: not found: %s", idOrPrefix)
	default:
		return nil, fmt.Errorf("note: ambiguous id prefix: %s", idOrPrefix)
	}
}

// ListByRoom returns a room's notes, newest first.
func ListByRoom(db *gorm.DB, roomID string) ([]models.Note, error) {
	var notes []models.Note
	if err := db.Where("room_id = ?", roomID).
		Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("note: list room %s: %w", roomID, err)
	}
	return notes, nil
}

// Search matches notes whose title or content contains the query,
// case-insensitively, newest first.
func Search(db *gorm.DB, query string) ([]models.Note, error) {
	pattern := "%" + query + "%"
	var notes []models.Note
	if err := db.Where("title LIKE ? OR content LIKE ?", pattern, pattern).
		Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("note: search %q: %w", query, err)
	}
	return notes, nil
}

// Delete removes a note and any links touching it.
func Delete(db *gorm.DB, n *models.Note) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Link{}, "source_id = ? OR target_id = ?", n.ID, n.ID).Error; err != nil {
			return fmt.Errorf("note: delete links of %s: %w", n.ID, err)
		}
		if err := tx.Delete(&models.Note{}, "id = ?", n.ID).Error; err != nil {
			return fmt.Errorf("note: delete %s: %w", n.ID, err)
		}
		return nil
	})
}

// LinkNotes creates a directed link between two notes. linkType may be
// empty for an untyped connection.
func LinkNotes(db *gorm.DB, sourceID, targetID, linkType string) (*models.Link, error) {
	if sourceID == targetID {
		return nil, fmt.Errorf("note: cannot link a note to itself")
	}
	for _, id := range []string{sourceID, targetID} {
		if _, err := Get(db, id); err != nil {
			return nil, err
		}
	}

	l := models.Link{
		ID:        uuid.NewString(),
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}
	if linkType != "" {
		l.LinkType = &linkType
	}
	if err := db.Create(&l).Error; err != nil {
		return nil, fmt.Errorf("note: link %s -> %s: %w", sourceID, targetID, err)
	}
	return &l, nil
}

// Links returns all links where the note is source or target.
func Links(db *gorm.DB, noteID string) ([]models.Link, error) {
	var links []models.Link
	if err := db.Where("source_id = ? OR target_id = ?", noteID, noteID).
		Order("created_at ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("note: links of %s: %w", noteID, err)
	}
	return links, nil
}
