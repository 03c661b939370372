package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
	"github.com/hemantmeena2005/eventbooking/pkg/telemetry"
)

// PostgresEventRepository implements EventRepository using PostgreSQL.
// It is the only writer of events.tickets_available.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

const eventColumns = `id, title, description, venue, date, price,
	organizer_id, capacity, tickets_available, created_at, updated_at`

// Create creates a new event record
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", event.ID),
		attribute.String("organizer_id", event.OrganizerID),
	)

	query := `
		INSERT INTO events (
			id, title, description, venue, date, price,
			organizer_id, capacity, tickets_available, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11
		)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Venue,
		event.Date,
		event.Price,
		event.OrganizerID,
		event.Capacity,
		event.TicketsAvailable,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create event: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves an event by its ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", id))

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrEventNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// List retrieves all events ordered by date
func (r *PostgresEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.list")
	defer span.End()

	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(events)))
	span.SetStatus(codes.Ok, "")
	return events, nil
}

// Delete deletes an event by its ID
func (r *PostgresEventRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.delete")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", id))

	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrEventNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Reserve atomically decrements tickets_available by count. The conditional
// UPDATE takes a row lock, so concurrent reservations against one event
// serialize and can never drive the counter below zero.
func (r *PostgresEventRepository) Reserve(ctx context.Context, eventID string, count int) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.reserve")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.Int("count", count),
	)

	if err := reserveTickets(ctx, r.pool, eventID, count); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Release atomically increments tickets_available by count
func (r *PostgresEventRepository) Release(ctx context.Context, eventID string, count int) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.release")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.Int("count", count),
	)

	if err := releaseTickets(ctx, r.pool, eventID, count); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// pgxQuerier is the subset of pgxpool.Pool and pgx.Tx the ledger needs,
// so reserve/release run either standalone or inside a unit of work.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// reserveTickets performs the conditional decrement against q
func reserveTickets(ctx context.Context, q pgxQuerier, eventID string, count int) error {
	if count <= 0 {
		return domain.ErrInvalidTicketCount
	}

	query := `
		UPDATE events SET
			tickets_available = tickets_available - $2,
			updated_at = $3
		WHERE id = $1 AND tickets_available >= $2
	`

	result, err := q.Exec(ctx, query, eventID, count, time.Now())
	if err != nil {
		return fmt.Errorf("failed to reserve tickets: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a missing event from insufficient inventory
		var available int
		err := q.QueryRow(ctx, `SELECT tickets_available FROM events WHERE id = $1`, eventID).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrEventNotFound
			}
			return fmt.Errorf("failed to check ticket availability: %w", err)
		}
		return domain.ErrInsufficientTickets
	}

	return nil
}

// releaseTickets performs the increment against q
func releaseTickets(ctx context.Context, q pgxQuerier, eventID string, count int) error {
	if count <= 0 {
		return domain.ErrInvalidTicketCount
	}

	query := `
		UPDATE events SET
			tickets_available = tickets_available + $2,
			updated_at = $3
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, eventID, count, time.Now())
	if err != nil {
		return fmt.Errorf("failed to release tickets: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// scanEvent scans a row into an Event struct
func scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	err := row.Scan(
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
		return nil, err
	}
	return event, nil
}

// Ensure PostgresEventRepository implements EventRepository
var _ EventRepository = (*PostgresEventRepository)(nil)
