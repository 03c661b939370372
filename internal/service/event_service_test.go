package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
	"github.com/hemantmeena2005/eventbooking/internal/dto"
)

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	CreateFunc  func(ctx context.Context, event *domain.Event) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Event, error)
	ListFunc    func(ctx context.Context) ([]*domain.Event, error)
	DeleteFunc  func(ctx context.Context, id string) error
	ReserveFunc func(ctx context.Context, eventID string, count int) error
	ReleaseFunc func(ctx context.Context, eventID string, count int) error
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*domain.Event{}, nil
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockEventRepository) Reserve(ctx context.Context, eventID string, count int) error {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, eventID, count)
	}
	return nil
}

func (m *MockEventRepository) Release(ctx context.Context, eventID string, count int) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, eventID, count)
	}
	return nil
}

func validEventRequest() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:            "Summer Jazz Night",
		Description:      "An open-air jazz concert",
		Venue:            "Riverside Park",
		Date:             time.Now().Add(30 * 24 * time.Hour),
		Price:            49.50,
		TicketsAvailable: 100,
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	tests := []struct {
		name        string
		organizerID string
		mutate      func(*dto.CreateEventRequest)
		wantErr     error
	}{
		{
			name:        "successful creation",
			organizerID: "organizer-001",
			mutate:      func(r *dto.CreateEventRequest) {},
		},
		{
			name:        "missing organizer",
			organizerID: "",
			mutate:      func(r *dto.CreateEventRequest) {},
			wantErr:     domain.ErrInvalidOrganizerID,
		},
		{
			name:        "empty title",
			organizerID: "organizer-001",
			mutate:      func(r *dto.CreateEventRequest) { r.Title = "   " },
			wantErr:     domain.ErrInvalidTitle,
		},
		{
			name:        "negative price",
			organizerID: "organizer-001",
			mutate:      func(r *dto.CreateEventRequest) { r.Price = -5 },
			wantErr:     domain.ErrInvalidPrice,
		},
		{
			name:        "zero tickets",
			organizerID: "organizer-001",
			mutate:      func(r *dto.CreateEventRequest) { r.TicketsAvailable = 0 },
			wantErr:     domain.ErrInvalidCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *domain.Event
			repo := &MockEventRepository{
				CreateFunc: func(ctx context.Context, event *domain.Event) error {
					created = event
					return nil
				},
			}
			svc := NewEventService(repo)

			req := validEventRequest()
			tt.mutate(req)

			resp, err := svc.CreateEvent(context.Background(), tt.organizerID, req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateEvent() error = %v, wantErr %v", err, tt.wantErr)
				}
				if created != nil {
					t.Error("CreateEvent() persisted an invalid event")
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateEvent() unexpected error = %v", err)
			}
			if resp.Capacity != req.TicketsAvailable {
				t.Errorf("CreateEvent() capacity = %d, want %d", resp.Capacity, req.TicketsAvailable)
			}
			if resp.TicketsAvailable != req.TicketsAvailable {
				t.Errorf("CreateEvent() tickets_available = %d, want %d", resp.TicketsAvailable, req.TicketsAvailable)
			}
			if resp.OrganizerID != tt.organizerID {
				t.Errorf("CreateEvent() organizer = %s, want %s", resp.OrganizerID, tt.organizerID)
			}
		})
	}
}

func TestEventService_DeleteEvent(t *testing.T) {
	event := testEvent(100)

	tests := []struct {
		name        string
		eventID     string
		organizerID string
		wantErr     error
		wantDeleted bool
	}{
		{
			name:        "owner deletes",
			eventID:     "event-001",
			organizerID: "organizer-001",
			wantDeleted: true,
		},
		{
			name:        "non-owner reported as not found",
			eventID:     "event-001",
			organizerID: "organizer-002",
			wantErr:     domain.ErrEventNotFound,
		},
		{
			name:        "missing event",
			eventID:     "event-999",
			organizerID: "organizer-001",
			wantErr:     domain.ErrEventNotFound,
		},
		{
			name:        "missing event id",
			eventID:     "",
			organizerID: "organizer-001",
			wantErr:     domain.ErrInvalidEventID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			repo := &MockEventRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
					if id != event.ID {
						return nil, domain.ErrEventNotFound
					}
					return event, nil
				},
				DeleteFunc: func(ctx context.Context, id string) error {
					deleted = true
					return nil
				},
			}
			svc := NewEventService(repo)

			err := svc.DeleteEvent(context.Background(), tt.eventID, tt.organizerID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DeleteEvent() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("DeleteEvent() unexpected error = %v", err)
			}

			if deleted != tt.wantDeleted {
				t.Errorf("DeleteEvent() deleted = %v, want %v", deleted, tt.wantDeleted)
			}
		})
	}
}

func TestEventService_GetEvent(t *testing.T) {
	repo := &MockEventRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			if id == "event-001" {
				return testEvent(42), nil
			}
			return nil, domain.ErrEventNotFound
		},
	}
	svc := NewEventService(repo)

	resp, err := svc.GetEvent(context.Background(), "event-001")
	if err != nil {
		t.Fatalf("GetEvent() unexpected error = %v", err)
	}
	if resp.TicketsAvailable != 42 {
		t.Errorf("GetEvent() tickets_available = %d, want 42", resp.TicketsAvailable)
	}

	if _, err := svc.GetEvent(context.Background(), "event-999"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("GetEvent() error = %v, want %v", err, domain.ErrEventNotFound)
	}
	if _, err := svc.GetEvent(context.Background(), ""); !errors.Is(err, domain.ErrInvalidEventID) {
		t.Errorf("GetEvent(\"\") error = %v, want %v", err, domain.ErrInvalidEventID)
	}
}
