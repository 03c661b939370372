package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
)

// PostgresOutboxRepository implements OutboxRepository using PostgreSQL
type PostgresOutboxRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOutboxRepository creates a new PostgresOutboxRepository
func NewPostgresOutboxRepository(pool *pgxpool.Pool) *PostgresOutboxRepository {
	return &PostgresOutboxRepository{pool: pool}
}

const outboxColumns = `id, aggregate_type, aggregate_id, event_type, payload,
	topic, partition_key, status, retry_count, max_retries,
	COALESCE(last_error, ''), created_at, published_at`

// CreateTx inserts an outbox message within an existing transaction
func (r *PostgresOutboxRepository) CreateTx(ctx context.Context, tx pgx.Tx, msg *domain.OutboxMessage) error {
	query := `
		INSERT INTO outbox_messages (
			id, aggregate_type, aggregate_id, event_type, payload,
			topic, partition_key, status, retry_count, max_retries, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11
		)
	`

	_, err := tx.Exec(ctx, query,
		msg.ID,
		msg.AggregateType,
		msg.AggregateID,
		msg.EventType,
		msg.Payload,
		msg.Topic,
		msg.PartitionKey,
		msg.Status.String(),
		msg.RetryCount,
		msg.MaxRetries,
		msg.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}

	return nil
}

// GetPending retrieves pending messages oldest first
func (r *PostgresOutboxRepository) GetPending(ctx context.Context, limit int) ([]*domain.OutboxMessage, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM outbox_messages
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1
	`
	return r.queryMessages(ctx, query, limit)
}

// GetFailed retrieves failed messages that still have retries left
func (r *PostgresOutboxRepository) GetFailed(ctx context.Context, limit int) ([]*domain.OutboxMessage, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM outbox_messages
		WHERE status = 'failed' AND retry_count < max_retries
		ORDER BY created_at ASC
		LIMIT $1
	`
	return r.queryMessages(ctx, query, limit)
}

// MarkAsPublished marks a message as successfully published
func (r *PostgresOutboxRepository) MarkAsPublished(ctx context.Context, id string) error {
	query := `
		UPDATE outbox_messages SET
			status = 'published',
			published_at = $2
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark outbox message as published: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrOutboxMessageNotFound
	}
	return nil
}

// MarkAsFailed records a publish failure and bumps the retry count
func (r *PostgresOutboxRepository) MarkAsFailed(ctx context.Context, id string, lastError string) error {
	query := `
		UPDATE outbox_messages SET
			status = 'failed',
			retry_count = retry_count + 1,
			last_error = $2
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, lastError)
	if err != nil {
		return fmt.Errorf("failed to mark outbox message as failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrOutboxMessageNotFound
	}
	return nil
}

// DeletePublishedBefore removes published messages older than the retention window
func (r *PostgresOutboxRepository) DeletePublishedBefore(ctx context.Context, days int) (int64, error) {
	query := `
		DELETE FROM outbox_messages
		WHERE status = 'published' AND published_at < $1
	`

	cutoff := time.Now().AddDate(0, 0, -days)
	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up outbox messages: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresOutboxRepository) queryMessages(ctx context.Context, query string, limit int) ([]*domain.OutboxMessage, error) {
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.OutboxMessage
	for rows.Next() {
		msg := &domain.OutboxMessage{}
		var status string
		err := rows.Scan(
			&msg.ID,
			&msg.AggregateType,
			&msg.AggregateID,
			&msg.EventType,
			&msg.Payload,
			&msg.Topic,
			&msg.PartitionKey,
			&status,
			&msg.RetryCount,
			&msg.MaxRetries,
			&msg.LastError,
			&msg.CreatedAt,
			&msg.PublishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		msg.Status = domain.OutboxStatus(status)
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox messages: %w", err)
	}

	return messages, nil
}

// Ensure PostgresOutboxRepository implements OutboxRepository
var _ OutboxRepository = (*PostgresOutboxRepository)(nil)
