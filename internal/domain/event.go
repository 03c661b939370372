package domain

import (
	"strings"
	"time"
)

// Event represents an event that tickets can be booked for.
// TicketsAvailable is the authoritative inventory counter; it is only
// mutated through the event repository's reserve/release operations.
type Event struct {
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
	UpdatedAt        time.Time `json:"updated_at"`
}

const maxTitleLength = 60

// Validate validates all event fields
func (e *Event) Validate() error {
	if err := e.ValidateTitle(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrInvalidDescription
	}
	if strings.TrimSpace(e.Venue) == "" {
		return ErrInvalidVenue
	}
	if e.Price < 0 {
		return ErrInvalidPrice
	}
	if e.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if strings.TrimSpace(e.OrganizerID) == "" {
		return ErrInvalidOrganizerID
	}
	return nil
}

// ValidateTitle validates the event title
func (e *Event) ValidateTitle() error {
	title := strings.TrimSpace(e.Title)
	if title == "" || len(title) > maxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

// IsSoldOut checks if the event has no tickets left
func (e *Event) IsSoldOut() bool {
	return e.TicketsAvailable <= 0
}

// TicketsSold returns the number of tickets currently held by confirmed bookings
func (e *Event) TicketsSold() int {
	return e.Capacity - e.TicketsAvailable
}
