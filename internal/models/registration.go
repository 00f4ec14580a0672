package models

import (
	"time"
)

// Registration links one user to one event. Rows are never updated.
type Registration struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_event"`
	EventID   uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_user_event;index"`
	CreatedAt time.Time `json:"created_at"`
}
