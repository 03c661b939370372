package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
	"github.com/hemantmeena2005/eventbooking/internal/dto"
	"github.com/hemantmeena2005/eventbooking/internal/repository"
	"github.com/hemantmeena2005/eventbooking/pkg/telemetry"
)

// EventService defines the interface for event business logic
type EventService interface {
	// CreateEvent creates an event owned by the given organizer
	CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)

	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, id string) (*dto.EventResponse, error)

	// ListEvents retrieves all events
	ListEvents(ctx context.Context) ([]*dto.EventResponse, error)

	// DeleteEvent deletes an event owned by the given organizer
	DeleteEvent(ctx context.Context, id, organizerID string) error
}

// eventService implements EventService
type eventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

// CreateEvent creates an event owned by the given organizer
func (s *eventService) CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	if strings.TrimSpace(organizerID) == "" {
		span.SetStatus(codes.Error, "invalid organizer_id")
		return nil, domain.ErrInvalidOrganizerID
	}
	if req == nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, domain.ErrInvalidTitle
	}

	now := time.Now()
	event := &domain.Event{
		ID:               uuid.New().String(),
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Venue:            req.Venue,
		Date:             req.Date,
		Price:            req.Price,
		OrganizerID:      organizerID,
		Capacity:         req.TicketsAvailable,
		TicketsAvailable: req.TicketsAvailable,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := event.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("event_id", event.ID),
		attribute.String("organizer_id", organizerID),
		attribute.Int("capacity", event.Capacity),
	)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewEventResponse(event), nil
}

// GetEvent retrieves an event by ID
func (s *eventService) GetEvent(ctx context.Context, id string) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()

	if strings.TrimSpace(id) == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewEventResponse(event), nil
}

// ListEvents retrieves all events
func (s *eventService) ListEvents(ctx context.Context) ([]*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list")
	defer span.End()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(events)))
	span.SetStatus(codes.Ok, "")
	return dto.NewEventResponses(events), nil
}

// DeleteEvent deletes an event owned by the given organizer
func (s *eventService) DeleteEvent(ctx context.Context, id, organizerID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.event.delete")
	defer span.End()

	if strings.TrimSpace(id) == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return domain.ErrInvalidEventID
	}
	if strings.TrimSpace(organizerID) == "" {
		span.SetStatus(codes.Error, "invalid organizer_id")
		return domain.ErrInvalidOrganizerID
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// Only the owning organizer may delete; report not-found so event
	// ownership cannot be probed
	if event.OrganizerID != organizerID {
		span.SetStatus(codes.Error, "not owner")
		return domain.ErrEventNotFound
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ensure eventService implements EventService
var _ EventService = (*eventService)(nil)
