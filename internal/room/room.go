// Package room manages the palace hierarchy. Rooms are conceptual
// spaces that nest arbitrarily deep and hold notes.
package room

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minmind/minmind/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a room.
type CreateOpts struct {
	Name        string
	Description string
	ParentID    string // empty for a top-level room
}

// Create adds a new room, optionally nested under a parent.
func Create(db *gorm.DB, opts CreateOpts) (*models.Room, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("room: name is required")
	}

	r := models.Room{
		ID:        uuid.NewString(),
		Name:      opts.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if opts.Description != "" {
		r.Description = &opts.Description
	}
	if opts.ParentID != "" {
		parent, err := Get(db, opts.ParentID)
		if err != nil {
			return nil, err
		}
		r.ParentID = &parent.ID
	}

	if err := db.Create(&r).Error; err != nil {
		return nil, fmt.Errorf("room: create %s: %w", opts.Name, err)
	}
	return &r, nil
}

// Get retrieves a room by id.
func Get(db *gorm.DB, id string) (*models.Room, error) {
	var r models.Room
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room: not found: %s", id)
		}
		return nil, fmt.Errorf("room: get %s: %w", id, err)
	}
	return &r, nil
}

// List returns all rooms ordered by name.
func List(db *gorm.DB) ([]models.Room, error) {
	var rooms []models.Room
	if err := db.Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("room: list: %w", err)
	}
	return rooms, nil
}

// Children returns the rooms nested directly under a parent.
func Children(db *gorm.DB, parentID string) ([]models.Room, error) {
	var rooms []models.Room
	if err := db.Where("parent_id = ?", parentID).Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("room: children of %s: %w", parentID, err)
	}
	return rooms, nil
}

// Resolve finds a room by exact id, unique id prefix, or
// case-insensitive name.
func Resolve(db *gorm.DB, ref string) (*models.Room, error) {
	var r models.Room
	err := db.First(&r, "id = ?", ref).Error
	if err == nil {
		return &r, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("room: resolve %s: %w", ref, err)
	}

	err = db.Where("LOWER(name) = LOWER(?)", ref).First(&r).Error
	if err == nil {
		return &r, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("room: resolve %s: %w", ref, err)
	}

	var matches []models.Room
	if err := db.Where("id LIKE ?", ref+"%").Limit(2).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("room: resolve %s: %w", ref, err)
	}
	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		return nil, fmt.Errorf("room: not found: %s", ref)
	default:
		return nil, fmt.Errorf("room: ambiguous id prefix: %s", ref)
	}
}

// Delete removes a room. Child rooms are re-parented to the deleted
// room's parent so the hierarchy stays connected; the room's notes are
// deleted with it.
func Delete(db *gorm.DB, r *models.Room) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Room{}).Where("parent_id = ?", r.ID).
			Update("parent_id", r.ParentID).Error; err != nil {
			return fmt.Errorf("room: reparent children of %s: %w", r.ID, err)
		}
		if err := tx.Delete(&models.Note{}, "room_id = ?", r.ID).Error; err != nil {
			return fmt.Errorf("room: delete notes of %s: %w", r.ID, err)
		}
		if err := tx.Delete(&models.Room{}, "id = ?", r.ID).Error; err != nil {
			return fmt.Errorf("room: delete %s: %w", r.ID, err)
		}
		return nil
	})
}
