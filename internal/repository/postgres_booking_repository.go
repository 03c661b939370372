package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
	"github.com/hemantmeena2005/eventbooking/pkg/telemetry"
)

// PostgresBookingRepository implements BookingRepository using PostgreSQL
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

const bookingColumns = `id, event_id, user_id, ticket_count, attendees,
	total_amount, status, created_at, updated_at, cancelled_at`

// GetByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// GetByUserID retrieves all bookings for a user joined with event display fields
func (r *PostgresBookingRepository) GetByUserID(ctx context.Context, userID string) ([]*BookingWithEvent, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_user_id")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `
		SELECT
			b.id, b.event_id, b.user_id, b.ticket_count, b.attendees,
			b.total_amount, b.status, b.created_at, b.updated_at, b.cancelled_at,
			e.id, e.title, e.description, e.venue, e.date, e.price,
			e.organizer_id, e.capacity, e.tickets_available, e.created_at, e.updated_at
		FROM bookings b
		JOIN events e ON b.event_id = e.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	return r.queryJoined(ctx, span, query, userID)
}

// GetByOrganizerID retrieves all bookings for events owned by an organizer,
// newest first
func (r *PostgresBookingRepository) GetByOrganizerID(ctx context.Context, organizerID string) ([]*BookingWithEvent, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_organizer_id")
	defer span.End()

	span.SetAttributes(attribute.String("organizer_id", organizerID))

	query := `
		SELECT
			b.id, b.event_id, b.user_id, b.ticket_count, b.attendees,
			b.total_amount, b.status, b.created_at, b.updated_at, b.cancelled_at,
			e.id, e.title, e.description, e.venue, e.date, e.price,
			e.organizer_id, e.capacity, e.tickets_available, e.created_at, e.updated_at
		FROM bookings b
		JOIN events e ON b.event_id = e.id
		WHERE e.organizer_id = $1
		ORDER BY b.created_at DESC
	`

	return r.queryJoined(ctx, span, query, organizerID)
}

func (r *PostgresBookingRepository) queryJoined(ctx context.Context, span trace.Span, query string, arg any) ([]*BookingWithEvent, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var results []*BookingWithEvent
	for rows.Next() {
		booking := &domain.Booking{}
		event := &domain.Event{}
		var status string
		var attendees []byte

		err := rows.Scan(
			&booking.ID,
			&booking.EventID,
			&booking.UserID,
			&booking.TicketCount,
			&attendees,
			&booking.TotalAmount,
			&status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&booking.CancelledAt,
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Venue,
			&event.Date,
			&event.Price,
			&event.OrganizerID,
			&event.Capacity,
			&event.TicketsAvailable,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}

		booking.Status = domain.BookingStatus(status)
		if err := json.Unmarshal(attendees, &booking.Attendees); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to decode attendees: %w", err)
		}

		results = append(results, &BookingWithEvent{Booking: booking, Event: event})
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(results)))
	span.SetStatus(codes.Ok, "")
	return results, nil
}

// scanBooking scans a row into a Booking struct
func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var status string
	var attendees []byte

	err := row.Scan(
		&booking.ID,
		&booking.EventID,
		&booking.UserID,
		&booking.TicketCount,
		&attendees,
		&booking.TotalAmount,
		&status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.CancelledAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	if err := json.Unmarshal(attendees, &booking.Attendees); err != nil {
		return nil, fmt.Errorf("failed to decode attendees: %w", err)
	}

	return booking, nil
}

// Ensure PostgresBookingRepository implements BookingRepository
var _ BookingRepository = (*PostgresBookingRepository)(nil)
