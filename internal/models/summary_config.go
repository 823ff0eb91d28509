package models

import "time"

// SummaryConfig personalizes article summarization. A config with no
// RoomID is global; room-scoped configs override the global one for
// articles assigned to that room.
type SummaryConfig struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Name         string  `gorm:"size:256;not null"`
	SystemPrompt string  `gorm:"type:text;not null"`
	RoomID       *string `gorm:"size:36;index"`
	Active       bool    `gorm:"default:true"`
	CreatedAt    time.Time
}

// Global reports whether this config applies to all rooms.
func (c *SummaryConfig) Global() bool { return c.RoomID == nil }
