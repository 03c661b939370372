package dto

import (
	"time"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
)

// CreateEventRequest is the request body for creating an event
type CreateEventRequest struct {
	Title            string    `json:"title" binding:"required"`
	Description      string    `json:"description" binding:"required"`
	Venue            string    `json:"venue" binding:"required"`
	Date             time.Time `json:"date" binding:"required"`
	Price            float64   `json:"price"`
	TicketsAvailable int       `json:"tickets_available" binding:"required"`
}

// EventResponse is the response body for an event
type EventResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Venue            string    `json:"venue"`
	Date             time.Time `json:"date"`
	Price            float64   `json:"price"`
	OrganizerID      string    `json:"organizer_id"`
	Capacity         int       `json:"capacity"`
	TicketsAvailable int       `json:"tickets_available"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewEventResponse builds an EventResponse from a domain event
func NewEventResponse(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Venue:            e.Venue,
		Date:             e.Date,
		Price:            e.Price,
		OrganizerID:      e.OrganizerID,
		Capacity:         e.Capacity,
		TicketsAvailable: e.TicketsAvailable,
		CreatedAt:        e.CreatedAt,
	}
}

// NewEventResponses builds EventResponses for a list of events
func NewEventResponses(events []*domain.Event) []*EventResponse {
	out := make([]*EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventResponse(e))
	}
	return out
}
