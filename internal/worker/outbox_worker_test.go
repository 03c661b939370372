package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
)

// MockOutboxRepository is a mock implementation of repository.OutboxRepository
type MockOutboxRepository struct {
	mu        sync.Mutex
	pending   []*domain.OutboxMessage
	failed    []*domain.OutboxMessage
	published []string
	markedBad []string
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*domain.OutboxMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pending
	m.pending = nil
	return out, nil
}

func (m *MockOutboxRepository) GetFailed(ctx context.Context, limit int) ([]*domain.OutboxMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.failed
	m.failed = nil
	return out, nil
}

func (m *MockOutboxRepository) MarkAsPublished(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, id)
	return nil
}

func (m *MockOutboxRepository) MarkAsFailed(ctx context.Context, id string, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markedBad = append(m.markedBad, id)
	return nil
}

func (m *MockOutboxRepository) DeletePublishedBefore(ctx context.Context, days int) (int64, error) {
	return 0, nil
}

func (m *MockOutboxRepository) publishedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.published...)
}

func (m *MockOutboxRepository) failedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.markedBad...)
}

// MockPublisher records produced messages and can fail on demand
type MockPublisher struct {
	mu       sync.Mutex
	produced []string
	failFor  map[string]error
}

func (p *MockPublisher) ProduceSync(ctx context.Context, topic, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.failFor[key]; ok {
		return err
	}
	p.produced = append(p.produced, key)
	return nil
}

func (p *MockPublisher) producedKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.produced...)
}

func testMessage(id string) *domain.OutboxMessage {
	return &domain.OutboxMessage{
		ID:            id,
		AggregateType: "booking",
		AggregateID:   "booking-" + id,
		EventType:     string(domain.BookingEventCreated),
		Payload:       []byte(`{"event_type":"booking.created"}`),
		Topic:         domain.BookingEventTopic,
		PartitionKey:  "event-" + id,
		Status:        domain.OutboxStatusPending,
		MaxRetries:    5,
		CreatedAt:     time.Now(),
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestOutboxWorker_PublishesPendingMessages(t *testing.T) {
	repo := &MockOutboxRepository{
		pending: []*domain.OutboxMessage{testMessage("msg-1"), testMessage("msg-2")},
	}
	publisher := &MockPublisher{}

	w := NewOutboxWorker(repo, publisher, &OutboxWorkerConfig{
		PollInterval:         10 * time.Millisecond,
		BatchSize:            10,
		RetryInterval:        time.Hour,
		CleanupInterval:      time.Hour,
		CleanupRetentionDays: 7,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	defer w.Stop()

	waitFor(t, time.Second, func() bool {
		return len(repo.publishedIDs()) == 2
	})

	if got := publisher.producedKeys(); len(got) != 2 {
		t.Errorf("produced %d messages, want 2", len(got))
	}
}

func TestOutboxWorker_MarksFailuresForRetry(t *testing.T) {
	msg := testMessage("msg-1")
	repo := &MockOutboxRepository{pending: []*domain.OutboxMessage{msg}}
	publisher := &MockPublisher{
		failFor: map[string]error{msg.PartitionKey: errors.New("broker unavailable")},
	}

	w := NewOutboxWorker(repo, publisher, &OutboxWorkerConfig{
		PollInterval:         10 * time.Millisecond,
		BatchSize:            10,
		RetryInterval:        time.Hour,
		CleanupInterval:      time.Hour,
		CleanupRetentionDays: 7,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	defer w.Stop()

	waitFor(t, time.Second, func() bool {
		return len(repo.failedIDs()) == 1
	})

	if got := repo.publishedIDs(); len(got) != 0 {
		t.Errorf("published %v, want none", got)
	}
}

func TestOutboxWorker_StartTwiceFails(t *testing.T) {
	repo := &MockOutboxRepository{}
	w := NewOutboxWorker(repo, &MockPublisher{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err == nil {
		t.Error("second Start() succeeded, want error")
	}
}
