package repository

import (
	"context"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
)

// EventRepository defines storage operations for events, including the
// inventory ledger operations that mutate tickets_available.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Delete(ctx context.Context, id string) error

	// Reserve atomically decrements tickets_available by count.
	// Fails with domain.ErrInsufficientTickets if fewer than count
	// tickets remain, or domain.ErrEventNotFound if the event is absent.
	Reserve(ctx context.Context, eventID string, count int) error

	// Release atomically increments tickets_available by count.
	Release(ctx context.Context, eventID string, count int) error
}

// BookingRepository defines read operations for bookings. Writes go
// through BookingStore so they stay inside one unit of work with the
// ledger mutation.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID string) ([]*BookingWithEvent, error)
	GetByOrganizerID(ctx context.Context, organizerID string) ([]*BookingWithEvent, error)
}

// BookingWithEvent is a booking joined with its event's display fields
type BookingWithEvent struct {
	Booking *domain.Booking
	Event   *domain.Event
}

// BookingStore executes booking mutations and the matching ledger
// mutation as a single transaction.
type BookingStore interface {
	// CreateWithReservation reserves booking.TicketCount tickets for
	// booking.EventID, snapshots the event price into the booking, inserts
	// the booking and an outbox message, and commits. On any failure
	// nothing is applied. Returns the event as read within the transaction.
	CreateWithReservation(ctx context.Context, booking *domain.Booking) (*domain.Event, error)

	// CancelWithRelease transitions the booking to cancelled, returns its
	// tickets to the event and inserts an outbox message, atomically.
	CancelWithRelease(ctx context.Context, booking *domain.Booking) error
}

// OutboxRepository defines storage operations for outbox messages
type OutboxRepository interface {
	GetPending(ctx context.Context, limit int) ([]*domain.OutboxMessage, error)
	GetFailed(ctx context.Context, limit int) ([]*domain.OutboxMessage, error)
	MarkAsPublished(ctx context.Context, id string) error
	MarkAsFailed(ctx context.Context, id string, lastError string) error
	DeletePublishedBefore(ctx context.Context, days int) (int64, error)
}
