package domain

import (
	"encoding/json"
	"time"
)

// BookingEventType identifies booking lifecycle events published to Kafka
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// BookingEventTopic is the Kafka topic for booking lifecycle events
const BookingEventTopic = "booking-events"

// OutboxStatus represents the status of an outbox message
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// String returns the string representation of OutboxStatus
func (s OutboxStatus) String() string {
	return string(s)
}

// OutboxMessage represents a message in the outbox table. Messages are
// written in the same transaction as the booking mutation they describe
// and published to Kafka by the outbox worker.
type OutboxMessage struct {
	ID            string       `json:"id"`
	AggregateType string       `json:"aggregate_type"`
	AggregateID   string       `json:"aggregate_id"`
	EventType     string       `json:"event_type"`
	Payload       []byte       `json:"payload"`
	Topic         string       `json:"topic"`
	PartitionKey  string       `json:"partition_key"`
	Status        OutboxStatus `json:"status"`
	RetryCount    int          `json:"retry_count"`
	MaxRetries    int          `json:"max_retries"`
	LastError     string       `json:"last_error,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	PublishedAt   *time.Time   `json:"published_at,omitempty"`
}

// BookingEventPayload is the wire format of a booking lifecycle event
type BookingEventPayload struct {
	EventType   string    `json:"event_type"`
	BookingID   string    `json:"booking_id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	TicketCount int       `json:"ticket_count"`
	TotalAmount float64   `json:"total_amount"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBookingOutboxMessage builds an outbox message for a booking lifecycle event
func NewBookingOutboxMessage(id string, eventType BookingEventType, booking *Booking) (*OutboxMessage, error) {
	payload, err := json.Marshal(&BookingEventPayload{
		EventType:   string(eventType),
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		UserID:      booking.UserID,
		TicketCount: booking.TicketCount,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status.String(),
		Timestamp:   time.Now(),
	})
	if err != nil {
		return nil, err
	}

	return &OutboxMessage{
		ID:            id,
		AggregateType: "booking",
		AggregateID:   booking.ID,
		EventType:     string(eventType),
		Payload:       payload,
		Topic:         BookingEventTopic,
		PartitionKey:  booking.EventID, // events for one event serialize on a partition
		Status:        OutboxStatusPending,
		MaxRetries:    5,
		CreatedAt:     time.Now(),
	}, nil
}

// CanRetry checks if the message can be retried
func (m *OutboxMessage) CanRetry() bool {
	return m.Status == OutboxStatusFailed && m.RetryCount < m.MaxRetries
}

// MarkAsPublished marks the message as successfully published
func (m *OutboxMessage) MarkAsPublished() {
	now := time.Now()
	m.Status = OutboxStatusPublished
	m.PublishedAt = &now
}

// MarkAsFailed records a publish failure
func (m *OutboxMessage) MarkAsFailed(err error) {
	m.Status = OutboxStatusFailed
	m.RetryCount++
	if err != nil {
		m.LastError = err.Error()
	}
}
