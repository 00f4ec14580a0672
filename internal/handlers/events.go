package handlers

import (
	"context"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/events"
	"github.com/gdg-garage/campus-events-api/internal/models"
)

const dateLayout = "2006-01-02"

type EventHandler struct {
	events *events.Service
}

func NewEventHandler(svc *events.Service) *EventHandler {
	return &EventHandler{events: svc}
}

type EventView struct {
	ID                 uint      `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Date               string    `json:"date" doc:"YYYY-MM-DD"`
	Time               string    `json:"time"`
	Venue              string    `json:"venue"`
	TotalRegistrations int64     `json:"total_registrations"`
	CreatedByID        uint      `json:"created_by_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newEventView(e *models.Event) EventView {
	return EventView{
		ID:                 e.ID,
		Title:              e.Title,
		Description:        e.Description,
		Date:               e.Date.UTC().Format(dateLayout),
		Time:               e.Time,
		Venue:              e.Venue,
		TotalRegistrations: e.TotalRegistrations,
		CreatedByID:        e.CreatedByID,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

type EventPath struct {
	ID uint `path:"id" doc:"Event ID"`
}

type EventResponse struct {
	Body Envelope[EventView]
}

type EventListResponse struct {
	Body Envelope[[]EventView]
}

func (h *EventHandler) HandleList(ctx context.Context, input *struct{}) (*EventListResponse, error) {
	list, err := h.events.List(ctx)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	views := make([]EventView, 0, len(list))
	for i := range list {
		views = append(views, newEventView(&list[i]))
	}
	return &EventListResponse{Body: ok(views, "")}, nil
}

func (h *EventHandler) HandleGet(ctx context.Context, input *EventPath) (*EventResponse, error) {
	ev, err := h.events.Get(ctx, input.ID)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return &EventResponse{Body: ok(newEventView(ev), "")}, nil
}

type CreateEventRequest struct {
	Body struct {
		Title       string `json:"title" required:"true"`
		Description string `json:"description" required:"true"`
		Date        string `json:"date" doc:"YYYY-MM-DD" required:"true"`
		Time        string `json:"time" doc:"Display time, e.g. 10:00 AM" required:"true"`
		Venue       string `json:"venue" required:"true"`
	}
}

func (h *EventHandler) HandleCreate(ctx context.Context, input *CreateEventRequest) (*EventResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	ev, err := h.events.Create(ctx, id.ID, events.Input{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Date:        input.Body.Date,
		Time:        input.Body.Time,
		Venue:       input.Body.Venue,
	})
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return &EventResponse{Body: ok(newEventView(ev), "Event created successfully")}, nil
}

type UpdateEventRequest struct {
	ID   uint `path:"id" doc:"Event ID"`
	Body struct {
		Title       string `json:"title,omitempty"`
		Description string `json:"description,omitempty"`
		Date        string `json:"date,omitempty" doc:"YYYY-MM-DD"`
		Time        string `json:"time,omitempty"`
		Venue       string `json:"venue,omitempty"`
	}
}

func (h *EventHandler) HandleUpdate(ctx context.Context, input *UpdateEventRequest) (*EventResponse, error) {
	ev, err := h.events.Update(ctx, input.ID, events.Input{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Date:        input.Body.Date,
		Time:        input.Body.Time,
		Venue:       input.Body.Venue,
	})
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return &EventResponse{Body: ok(newEventView(ev), "Event updated successfully")}, nil
}

type DeleteEventResponse struct {
	Body Envelope[*Empty]
}

func (h *EventHandler) HandleDelete(ctx context.Context, input *EventPath) (*DeleteEventResponse, error) {
	if err := h.events.Delete(ctx, input.ID); err != nil {
		return nil, httpError(ctx, err)
	}
	return &DeleteEventResponse{Body: ok[*Empty](nil, "Event deleted successfully")}, nil
}
