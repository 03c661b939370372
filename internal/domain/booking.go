package domain

import (
	"regexp"
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// Attendee holds the details collected for each ticket on a booking
type Attendee struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate validates a single attendee record
func (a *Attendee) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidAttendeeName
	}
	if a.Age <= 0 || a.Age >= 120 {
		return ErrInvalidAttendeeAge
	}
	if !emailPattern.MatchString(a.Email) {
		return ErrInvalidAttendeeEmail
	}
	return nil
}

// Booking represents a confirmed reservation of tickets for an event.
// TotalAmount is snapshotted from the event price at booking time and
// never recomputed.
type Booking struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	UserID      string        `json:"user_id"`
	TicketCount int           `json:"ticket_count"`
	Attendees   []Attendee    `json:"attendees"`
	TotalAmount float64       `json:"total_amount"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

// Validate validates all booking fields
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.EventID) == "" {
		return ErrInvalidEventID
	}
	if strings.TrimSpace(b.UserID) == "" {
		return ErrInvalidUserID
	}
	if b.TicketCount <= 0 {
		return ErrInvalidTicketCount
	}
	if len(b.Attendees) != b.TicketCount {
		return ErrAttendeeCountMismatch
	}
	for i := range b.Attendees {
		if err := b.Attendees[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsConfirmed checks if the booking is in confirmed status
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsCancelled checks if the booking is in cancelled status
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// CanCancel checks if the booking can be cancelled.
// Cancellation is one-way: only confirmed bookings qualify.
func (b *Booking) CanCancel() bool {
	return b.Status == BookingStatusConfirmed
}

// Cancel marks the booking as cancelled
func (b *Booking) Cancel() error {
	if !b.CanCancel() {
		if b.Status == BookingStatusCancelled {
			return ErrBookingCancelled
		}
		return ErrInvalidBookingStatus
	}
	now := time.Now()
	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

// BelongsToUser checks if the booking belongs to the specified user
func (b *Booking) BelongsToUser(userID string) bool {
	return b.UserID == userID
}
