package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
	"github.com/hemantmeena2005/eventbooking/pkg/redis"
)

const (
	eventDetailKeyPrefix = "event:detail:"
	eventListKey         = "event:list"

	// Short TTL: cached availability is display data only; booking
	// decisions always read the counter inside the transaction.
	eventCacheTTL = 30 * time.Second
)

// CachedEventRepository wraps EventRepository with Redis caching for the
// read paths. Ledger operations pass straight through and invalidate the
// affected entries.
type CachedEventRepository struct {
	repo  EventRepository
	cache *redis.Client
}

// NewCachedEventRepository creates a new CachedEventRepository
func NewCachedEventRepository(repo EventRepository, cache *redis.Client) *CachedEventRepository {
	return &CachedEventRepository{
		repo:  repo,
		cache: cache,
	}
}

// Create creates a new event and invalidates the list cache
func (r *CachedEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if err := r.repo.Create(ctx, event); err != nil {
		return err
	}
	r.cache.Del(ctx, eventListKey)
	return nil
}

// GetByID retrieves an event by ID with caching
func (r *CachedEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	cacheKey := eventDetailKeyPrefix + id
	if cached, err := r.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		var event domain.Event
		if err := json.Unmarshal([]byte(cached), &event); err == nil {
			return &event, nil
		}
	}

	event, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheJSON(ctx, cacheKey, event)
	return event, nil
}

// List retrieves all events with caching
func (r *CachedEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	if cached, err := r.cache.Get(ctx, eventListKey).Result(); err == nil && cached != "" {
		var events []*domain.Event
		if err := json.Unmarshal([]byte(cached), &events); err == nil {
			return events, nil
		}
	}

	events, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	r.cacheJSON(ctx, eventListKey, events)
	return events, nil
}

// Delete deletes an event and invalidates its cache entries
func (r *CachedEventRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// Reserve passes through to the underlying ledger and invalidates the
// event's cached availability
func (r *CachedEventRepository) Reserve(ctx context.Context, eventID string, count int) error {
	if err := r.repo.Reserve(ctx, eventID, count); err != nil {
		return err
	}
	r.invalidate(ctx, eventID)
	return nil
}

// Release passes through to the underlying ledger and invalidates the
// event's cached availability
func (r *CachedEventRepository) Release(ctx context.Context, eventID string, count int) error {
	if err := r.repo.Release(ctx, eventID, count); err != nil {
		return err
	}
	r.invalidate(ctx, eventID)
	return nil
}

// Invalidate drops the cached entries for an event. Called after booking
// transactions commit so listings do not serve stale availability for the
// full TTL.
func (r *CachedEventRepository) Invalidate(ctx context.Context, eventID string) {
	r.invalidate(ctx, eventID)
}

func (r *CachedEventRepository) invalidate(ctx context.Context, eventID string) {
	r.cache.Del(ctx, eventDetailKeyPrefix+eventID, eventListKey)
}

func (r *CachedEventRepository) cacheJSON(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	// Best effort: a cache write failure never fails the read
	r.cache.Set(ctx, key, string(data), eventCacheTTL)
}

// Ensure CachedEventRepository implements EventRepository
var _ EventRepository = (*CachedEventRepository)(nil)
