package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
	"github.com/hemantmeena2005/eventbooking/pkg/telemetry"
)

// TransactionalBookingRepository implements BookingStore. Each operation
// runs the ledger mutation, the booking write and the outbox insert in a
// single PostgreSQL transaction so no partial effect is ever observable.
type TransactionalBookingRepository struct {
	pool       *pgxpool.Pool
	outboxRepo *PostgresOutboxRepository
}

// NewTransactionalBookingRepository creates a new TransactionalBookingRepository
func NewTransactionalBookingRepository(pool *pgxpool.Pool) *TransactionalBookingRepository {
	return &TransactionalBookingRepository{
		pool:       pool,
		outboxRepo: NewPostgresOutboxRepository(pool),
	}
}

// CreateWithReservation reserves tickets, snapshots the event price into the
// booking and inserts the booking plus an outbox message, atomically.
func (r *TransactionalBookingRepository) CreateWithReservation(ctx context.Context, booking *domain.Booking) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create_with_reservation")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("event_id", booking.EventID),
		attribute.Int("ticket_count", booking.TicketCount),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Conditional decrement; the row lock serializes concurrent bookings
	// for the same event.
	if err := reserveTickets(ctx, tx, booking.EventID, booking.TicketCount); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Read the event inside the same transaction so the price snapshot is
	// consistent with the decrement.
	event, err := scanEvent(tx.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, booking.EventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrEventNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	booking.TotalAmount = event.Price * float64(booking.TicketCount)

	if err := r.insertBookingTx(ctx, tx, booking); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	outboxMsg, err := domain.NewBookingOutboxMessage(uuid.New().String(), domain.BookingEventCreated, booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to build outbox message: %w", err)
	}
	if err := r.outboxRepo.CreateTx(ctx, tx, outboxMsg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// CancelWithRelease transitions the booking to cancelled and returns its
// tickets to the event, atomically. The status condition on the UPDATE
// makes concurrent cancellations of the same booking race-free: exactly
// one wins, the rest see the terminal state.
func (r *TransactionalBookingRepository) CancelWithRelease(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.cancel_with_release")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("event_id", booking.EventID),
		attribute.Int("ticket_count", booking.TicketCount),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE bookings SET
			status = $2,
			cancelled_at = $3,
			updated_at = $4
		WHERE id = $1 AND status = 'confirmed'
	`

	now := time.Now()
	result, err := tx.Exec(ctx, query, booking.ID, domain.BookingStatusCancelled.String(), now, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Check whether the booking exists and what state it is in
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, booking.ID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				span.SetStatus(codes.Error, "not found")
				return domain.ErrBookingNotFound
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to check booking status: %w", err)
		}
		if status == domain.BookingStatusCancelled.String() {
			span.SetStatus(codes.Error, "already cancelled")
			return domain.ErrBookingCancelled
		}
		span.SetStatus(codes.Error, "invalid status")
		return domain.ErrInvalidBookingStatus
	}

	// Return the booking's own reserved count to the event
	if err := releaseTickets(ctx, tx, booking.EventID, booking.TicketCount); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.UpdatedAt = now

	outboxMsg, err := domain.NewBookingOutboxMessage(uuid.New().String(), domain.BookingEventCancelled, booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to build outbox message: %w", err)
	}
	if err := r.outboxRepo.CreateTx(ctx, tx, outboxMsg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// insertBookingTx inserts a booking within a transaction
func (r *TransactionalBookingRepository) insertBookingTx(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error {
	attendees, err := json.Marshal(booking.Attendees)
	if err != nil {
		return fmt.Errorf("failed to encode attendees: %w", err)
	}

	query := `
		INSERT INTO bookings (
			id, event_id, user_id, ticket_count, attendees,
			total_amount, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9
		)
	`

	_, err = tx.Exec(ctx, query,
		booking.ID,
		booking.EventID,
		booking.UserID,
		booking.TicketCount,
		attendees,
		booking.TotalAmount,
		booking.Status.String(),
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

// OutboxRepo returns the outbox repository sharing this store's pool
func (r *TransactionalBookingRepository) OutboxRepo() *PostgresOutboxRepository {
	return r.outboxRepo
}

// Ensure TransactionalBookingRepository implements BookingStore
var _ BookingStore = (*TransactionalBookingRepository)(nil)
