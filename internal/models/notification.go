package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is one delivered-or-attempted message. Immutable once
// created except for the read flag and bulk delete.
type Notification struct {
	BaseModel
	UserID  string         `gorm:"not null;index"`
	Type    EventType      `gorm:"type:varchar(30);not null"`
	Channel Channel        `gorm:"type:varchar(10);not null"`
	Title   string         `gorm:"not null"`
	Body    string
	Data    datatypes.JSON `gorm:"type:jsonb"` // routing metadata: {"url": "...", "order_id": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
