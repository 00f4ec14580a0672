// Package events manages the event catalogue.
package events

import (
	"context"
	"strings"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/gdg-garage/campus-events-api/internal/database"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"gorm.io/gorm"
)

// RegistrationCount is a correlated subquery counting the registration rows of
// events.id. It counts every row, whatever the state of the user.
const RegistrationCount = `(SELECT COUNT(*) FROM registrations
	WHERE registrations.event_id = events.id)`

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Input carries the client supplied event fields. Date accepts YYYY-MM-DD or
// RFC 3339.
type Input struct {
	Title       string
	Description string
	Date        string
	Time        string
	Venue       string
}

type Service struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewService(db *gorm.DB, timeout time.Duration) *Service {
	return &Service{db: db, timeout: timeout}
}

func (s *Service) withCounts(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Event{}).
		Select("events.*, " + RegistrationCount + " AS total_registrations")
}

// List returns all events, soonest first.
func (s *Service) List(ctx context.Context) ([]models.Event, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	var out []models.Event
	if err := s.withCounts(ctx).Order("events.date ASC, events.id ASC").Find(&out).Error; err != nil {
		return nil, database.Translate(err, "event")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Event, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	var ev models.Event
	if err := s.withCounts(ctx).Where("events.id = ?", id).First(&ev).Error; err != nil {
		return nil, database.Translate(err, "event")
	}
	return &ev, nil
}

// Exists reports whether a live event with id exists.
func (s *Service) Exists(ctx context.Context, id uint) (bool, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, database.Translate(err, "event")
	}
	return n > 0, nil
}

func (s *Service) Create(ctx context.Context, actorID uint, in Input) (*models.Event, error) {
	fields, err := in.validate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	ev := &models.Event{EventFields: fields, CreatedByID: actorID}
	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, database.Translate(err, "event")
	}
	return ev, nil
}

// Update changes only the fields that are non-blank in patch.
func (s *Service) Update(ctx context.Context, id uint, patch Input) (*models.Event, error) {
	updates := map[string]any{}
	set := func(column, value string) {
		if v := strings.TrimSpace(value); v != "" {
			updates[column] = v
		}
	}
	set("title", patch.Title)
	set("description", patch.Description)
	set("time", patch.Time)
	set("venue", patch.Venue)
	if strings.TrimSpace(patch.Date) != "" {
		d, err := ParseDate(patch.Date)
		if err != nil {
			return nil, err
		}
		updates["date"] = d
	}

	if err := s.update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) update(ctx context.Context, id uint, updates map[string]any) error {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev models.Event
		if err := tx.First(&ev, id).Error; err != nil {
			return database.Translate(err, "event")
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&ev).Updates(updates).Error; err != nil {
			return database.Translate(err, "event")
		}
		return nil
	})
}

// Delete removes the event together with its registrations.
func (s *Service) Delete(ctx context.Context, id uint) error {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev models.Event
		if err := tx.First(&ev, id).Error; err != nil {
			return database.Translate(err, "event")
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return database.Translate(err, "registration")
		}
		if err := tx.Delete(&ev).Error; err != nil {
			return database.Translate(err, "event")
		}
		return nil
	})
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation("invalid date %q, expected YYYY-MM-DD", s)
}

func (in Input) validate() (models.EventFields, error) {
	f := models.EventFields{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Time:        strings.TrimSpace(in.Time),
		Venue:       strings.TrimSpace(in.Venue),
	}
	if f.Title == "" || f.Description == "" || f.Time == "" || f.Venue == "" || strings.TrimSpace(in.Date) == "" {
		return f, apperr.Validation("title, description, date, time and venue are required")
	}
	d, err := ParseDate(in.Date)
	if err != nil {
		return f, err
	}
	f.Date = d
	return f, nil
}
