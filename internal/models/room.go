package models

import "time"

// Room is a conceptual space for organizing related notes and work.
// Rooms nest through ParentID to form a hierarchy.
type Room struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"size:256;not null"`
	Description *string `gorm:"type:text"`
	ParentID    *string `gorm:"size:36"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Parent *Room `gorm:"foreignKey:ParentID"`
	Notes  []Note `gorm:"foreignKey:RoomID"`
}
