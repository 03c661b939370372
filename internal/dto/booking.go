package dto

import (
	"time"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
)

// AttendeeRequest is the attendee record submitted with a booking
type AttendeeRequest struct {
	Name  string `json:"name" binding:"required"`
	Age   int    `json:"age" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// CreateBookingRequest is the request body for creating a booking
type CreateBookingRequest struct {
	EventID     string            `json:"event_id" binding:"required"`
	TicketCount int               `json:"ticket_count" binding:"required"`
	Attendees   []AttendeeRequest `json:"attendees" binding:"required"`
}

// ToAttendees converts the request attendees to domain attendees
func (r *CreateBookingRequest) ToAttendees() []domain.Attendee {
	attendees := make([]domain.Attendee, 0, len(r.Attendees))
	for _, a := range r.Attendees {
		attendees = append(attendees, domain.Attendee{
			Name:  a.Name,
			Age:   a.Age,
			Email: a.Email,
		})
	}
	return attendees
}

// BookingResponse is the response body for a booking
type BookingResponse struct {
	ID          string            `json:"id"`
	EventID     string            `json:"event_id"`
	UserID      string            `json:"user_id"`
	TicketCount int               `json:"ticket_count"`
	Attendees   []domain.Attendee `json:"attendees"`
	TotalAmount float64           `json:"total_amount"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
}

// NewBookingResponse builds a BookingResponse from a domain booking
func NewBookingResponse(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:          b.ID,
		EventID:     b.EventID,
		UserID:      b.UserID,
		TicketCount: b.TicketCount,
		Attendees:   b.Attendees,
		TotalAmount: b.TotalAmount,
		Status:      b.Status.String(),
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
	}
}

// BookingEventInfo carries the event display fields joined onto a booking
type BookingEventInfo struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Venue string    `json:"venue"`
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// UserBookingResponse is a booking joined with its event's display fields
type UserBookingResponse struct {
	BookingResponse
	Event BookingEventInfo `json:"event"`
}

// CancelBookingResponse confirms a cancellation
type CancelBookingResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}
