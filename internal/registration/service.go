// Package registration records which users are signed up for which events.
//
// A user holds at most one registration per event. The (user_id, event_id)
// unique index is the final guard; the pre-insert check only produces a
// friendlier error on the common path. Event totals are derived from the rows
// at read time, so a registration is a single insert.
package registration

import (
	"context"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/gdg-garage/campus-events-api/internal/database"
	"github.com/gdg-garage/campus-events-api/internal/events"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"gorm.io/gorm"
)

var ErrAlreadyRegistered = &apperr.Error{
	Kind:    apperr.KindConflict,
	Code:    "already_registered",
	Message: "already registered for this event",
}

// EventChecker reports whether an event is live.
type EventChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type UserRegistration struct {
	ID           uint      `json:"id"`
	EventID      uint      `json:"event_id"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"`
	Venue        string    `json:"venue"`
	RegisteredAt time.Time `json:"registered_at"`
}

type EventRegistrant struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	EventTitle   string    `json:"event_title"`
	RegisteredAt time.Time `json:"registered_at"`
}

type EventStats struct {
	EventID            uint   `json:"event_id"`
	Title              string `json:"title"`
	TotalRegistrations int64  `json:"total_registrations"`
}

type Service struct {
	db      *gorm.DB
	events  EventChecker
	timeout time.Duration
}

func NewService(db *gorm.DB, events EventChecker, timeout time.Duration) *Service {
	return &Service{db: db, events: events, timeout: timeout}
}

// Register signs userID up for eventID.
func (s *Service) Register(ctx context.Context, userID, eventID uint) (*models.Registration, error) {
	ok, err := s.events.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("event not found")
	}

	registered, err := s.IsRegistered(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, ErrAlreadyRegistered
	}

	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	reg := &models.Registration{UserID: userID, EventID: eventID}
	if err := s.db.WithContext(ctx).Create(reg).Error; err != nil {
		// Lost the race against a concurrent request for the same pair.
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		return nil, database.Translate(err, "registration")
	}
	return reg, nil
}

func (s *Service) IsRegistered(ctx context.Context, userID, eventID uint) (bool, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	var n int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&n).Error
	if err != nil {
		return false, database.Translate(err, "registration")
	}
	return n > 0, nil
}

// ListForUser returns the user's registrations with event details, newest
// first. Registrations for events that no longer exist are skipped.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]UserRegistration, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := []UserRegistration{}
	err := s.db.WithContext(ctx).Table("registrations").
		Select(`registrations.id, registrations.event_id, events.title, events.date,
			events.time, events.venue, registrations.created_at AS registered_at`).
		Joins("JOIN events ON events.id = registrations.event_id AND events.deleted_at IS NULL").
		Where("registrations.user_id = ?", userID).
		Order("registrations.created_at DESC, registrations.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, database.Translate(err, "registration")
	}
	return out, nil
}

// ListForEvent returns everyone registered for eventID in sign-up order.
func (s *Service) ListForEvent(ctx context.Context, eventID uint) ([]EventRegistrant, error) {
	ok, err := s.events.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("event not found")
	}

	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := []EventRegistrant{}
	err = s.db.WithContext(ctx).Table("registrations").
		Select(`registrations.id, registrations.user_id, users.name, users.email,
			events.title AS event_title, registrations.created_at AS registered_at`).
		Joins("JOIN users ON users.id = registrations.user_id AND users.deleted_at IS NULL").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.event_id = ?", eventID).
		Order("registrations.created_at ASC, registrations.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, database.Translate(err, "registration")
	}
	return out, nil
}

// AggregateStats returns the registration total of every live event. The
// totals use the same rule as the per-event count.
func (s *Service) AggregateStats(ctx context.Context) ([]EventStats, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := []EventStats{}
	err := s.db.WithContext(ctx).Table("events").
		Select("events.id AS event_id, events.title, " + events.RegistrationCount + " AS total_registrations").
		Where("events.deleted_at IS NULL").
		Order("events.date ASC, events.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, database.Translate(err, "event")
	}
	return out, nil
}
