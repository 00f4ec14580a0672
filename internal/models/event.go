package models

import (
	"time"

	"gorm.io/gorm"
)

type EventFields struct {
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	Time        string    `json:"time" gorm:"not null"`
	Venue       string    `json:"venue" gorm:"not null"`
}

type Event struct {
	gorm.Model
	EventFields `gorm:"embedded"`
	CreatedByID uint `json:"created_by_id"`

	// TotalRegistrations is computed from the registrations table on read.
	TotalRegistrations int64 `json:"total_registrations" gorm:"->;-:migration"`
}
