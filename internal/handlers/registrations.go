package handlers

import (
	"context"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/registration"
)

type RegistrationHandler struct {
	registrations *registration.Service
}

func NewRegistrationHandler(svc *registration.Service) *RegistrationHandler {
	return &RegistrationHandler{registrations: svc}
}

type EventIDPath struct {
	EventID uint `path:"eventId" doc:"Event ID"`
}

type RegistrationView struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	EventID   uint      `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterResponse struct {
	Body Envelope[RegistrationView]
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *EventIDPath) (*RegisterResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := h.registrations.Register(ctx, id.ID, input.EventID)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return &RegisterResponse{Body: ok(RegistrationView{
		ID:        reg.ID,
		UserID:    reg.UserID,
		EventID:   reg.EventID,
		CreatedAt: reg.CreatedAt,
	}, "Registered successfully")}, nil
}

type MyRegistrationView struct {
	ID           uint      `json:"id"`
	EventID      uint      `json:"event_id"`
	Title        string    `json:"title"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Venue        string    `json:"venue"`
	RegisteredAt time.Time `json:"registered_at"`
}

type MyRegistrationsResponse struct {
	Body Envelope[[]MyRegistrationView]
}

func (h *RegistrationHandler) HandleMine(ctx context.Context, input *struct{}) (*MyRegistrationsResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	list, err := h.registrations.ListForUser(ctx, id.ID)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	views := make([]MyRegistrationView, 0, len(list))
	for _, r := range list {
		views = append(views, MyRegistrationView{
			ID:           r.ID,
			EventID:      r.EventID,
			Title:        r.Title,
			Date:         r.Date.UTC().Format(dateLayout),
			Time:         r.Time,
			Venue:        r.Venue,
			RegisteredAt: r.RegisteredAt,
		})
	}
	return &MyRegistrationsResponse{Body: ok(views, "")}, nil
}

type CheckView struct {
	Registered bool `json:"registered"`
}

type CheckResponse struct {
	Body Envelope[CheckView]
}

func (h *RegistrationHandler) HandleCheck(ctx context.Context, input *EventIDPath) (*CheckResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	registered, err := h.registrations.IsRegistered(ctx, id.ID, input.EventID)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return &CheckResponse{Body: ok(CheckView{Registered: registered}, "")}, nil
}

type EventRegistrantsResponse struct {
	Body Envelope[[]registration.EventRegistrant]
}

func (h *RegistrationHandler) HandleEventRegistrants(ctx context.Context, input *EventIDPath) (*EventRegistrantsResponse, error) {
	list, err := h.registrations.ListForEvent(ctx, input.EventID)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return &EventRegistrantsResponse{Body: ok(list, "")}, nil
}

type StatsResponse struct {
	Body Envelope[[]registration.EventStats]
}

func (h *RegistrationHandler) HandleStats(ctx context.Context, input *struct{}) (*StatsResponse, error) {
	stats, err := h.registrations.AggregateStats(ctx)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return &StatsResponse{Body: ok(stats, "")}, nil
}
