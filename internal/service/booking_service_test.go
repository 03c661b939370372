package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hemantmeena2005/eventbooking/internal/domain"
	"github.com/hemantmeena2005/eventbooking/internal/dto"
	"github.com/hemantmeena2005/eventbooking/internal/repository"
)

// MockBookingRepository is a mock implementation of repository.BookingRepository
type MockBookingRepository struct {
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Booking, error)
	GetByUserIDFunc      func(ctx context.Context, userID string) ([]*repository.BookingWithEvent, error)
	GetByOrganizerIDFunc func(ctx context.Context, organizerID string) ([]*repository.BookingWithEvent, error)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID string) ([]*repository.BookingWithEvent, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return []*repository.BookingWithEvent{}, nil
}

func (m *MockBookingRepository) GetByOrganizerID(ctx context.Context, organizerID string) ([]*repository.BookingWithEvent, error) {
	if m.GetByOrganizerIDFunc != nil {
		return m.GetByOrganizerIDFunc(ctx, organizerID)
	}
	return []*repository.BookingWithEvent{}, nil
}

// MockBookingStore is a mock implementation of repository.BookingStore
type MockBookingStore struct {
	CreateWithReservationFunc func(ctx context.Context, booking *domain.Booking) (*domain.Event, error)
	CancelWithReleaseFunc     func(ctx context.Context, booking *domain.Booking) error
}

func (m *MockBookingStore) CreateWithReservation(ctx context.Context, booking *domain.Booking) (*domain.Event, error) {
	if m.CreateWithReservationFunc != nil {
		return m.CreateWithReservationFunc(ctx, booking)
	}
	return nil, errors.New("not configured")
}

func (m *MockBookingStore) CancelWithRelease(ctx context.Context, booking *domain.Booking) error {
	if m.CancelWithReleaseFunc != nil {
		return m.CancelWithReleaseFunc(ctx, booking)
	}
	return nil
}

// MockCacheInvalidator records cache invalidations
type MockCacheInvalidator struct {
	Invalidated []string
}

func (m *MockCacheInvalidator) Invalidate(ctx context.Context, eventID string) {
	m.Invalidated = append(m.Invalidated, eventID)
}

func testEvent(available int) *domain.Event {
	return &domain.Event{
		ID:               "event-001",
		Title:            "Summer Jazz Night",
		Description:      "An open-air jazz concert",
		Venue:            "Riverside Park",
		Date:             time.Now().Add(30 * 24 * time.Hour),
		Price:            50.00,
		OrganizerID:      "organizer-001",
		Capacity:         100,
		TicketsAvailable: available,
	}
}

func validCreateRequest() *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		EventID:     "event-001",
		TicketCount: 2,
		Attendees: []dto.AttendeeRequest{
			{Name: "Alice Smith", Age: 30, Email: "alice@example.com"},
			{Name: "Bob Jones", Age: 42, Email: "bob@example.com"},
		},
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		req        *dto.CreateBookingRequest
		setupStore func(*MockBookingStore)
		wantErr    error
		wantTotal  float64
	}{
		{
			name:   "successful booking snapshots total amount",
			userID: "user-001",
			req:    validCreateRequest(),
			setupStore: func(s *MockBookingStore) {
				s.CreateWithReservationFunc = func(ctx context.Context, booking *domain.Booking) (*domain.Event, error) {
					event := testEvent(98)
					booking.TotalAmount = event.Price * float64(booking.TicketCount)
					return event, nil
				}
			},
			wantTotal: 100.00,
		},
		{
			name:    "missing user id",
			userID:  "",
			req:     validCreateRequest(),
			wantErr: domain.ErrInvalidUserID,
		},
		{
			name:    "nil request",
			userID:  "user-001",
			req:     nil,
			wantErr: domain.ErrInvalidTicketCount,
		},
		{
			name:   "zero ticket count",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				EventID:     "event-001",
				TicketCount: 0,
				Attendees:   []dto.AttendeeRequest{},
			},
			wantErr: domain.ErrInvalidTicketCount,
		},
		{
			name:   "attendee count mismatch",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				EventID:     "event-001",
				TicketCount: 3,
				Attendees: []dto.AttendeeRequest{
					{Name: "Alice Smith", Age: 30, Email: "alice@example.com"},
				},
			},
			wantErr: domain.ErrAttendeeCountMismatch,
		},
		{
			name:   "invalid attendee email",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				EventID:     "event-001",
				TicketCount: 1,
				Attendees: []dto.AttendeeRequest{
					{Name: "Alice Smith", Age: 30, Email: "not-an-email"},
				},
			},
			wantErr: domain.ErrInvalidAttendeeEmail,
		},
		{
			name:   "insufficient tickets",
			userID: "user-001",
			req:    validCreateRequest(),
			setupStore: func(s *MockBookingStore) {
				s.CreateWithReservationFunc = func(ctx context.Context, booking *domain.Booking) (*domain.Event, error) {
					return nil, domain.ErrInsufficientTickets
				}
			},
			wantErr: domain.ErrInsufficientTickets,
		},
		{
			name:   "event not found",
			userID: "user-001",
			req:    validCreateRequest(),
			setupStore: func(s *MockBookingStore) {
				s.CreateWithReservationFunc = func(ctx context.Context, booking *domain.Booking) (*domain.Event, error) {
					return nil, domain.ErrEventNotFound
				}
			},
			wantErr: domain.ErrEventNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockBookingStore{}
			if tt.setupStore != nil {
				tt.setupStore(store)
			}
			cache := &MockCacheInvalidator{}
			svc := NewBookingService(&MockBookingRepository{}, store, cache)

			resp, err := svc.CreateBooking(context.Background(), tt.userID, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateBooking() error = %v, wantErr %v", err, tt.wantErr)
				}
				if len(cache.Invalidated) != 0 {
					t.Error("CreateBooking() invalidated cache on failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateBooking() unexpected error = %v", err)
			}
			if resp.ID == "" {
				t.Error("CreateBooking() returned empty booking ID")
			}
			if resp.TotalAmount != tt.wantTotal {
				t.Errorf("CreateBooking() total = %v, want %v", resp.TotalAmount, tt.wantTotal)
			}
			if resp.Status != domain.BookingStatusConfirmed.String() {
				t.Errorf("CreateBooking() status = %v, want confirmed", resp.Status)
			}
			if len(cache.Invalidated) != 1 || cache.Invalidated[0] != "event-001" {
				t.Errorf("CreateBooking() cache invalidations = %v, want [event-001]", cache.Invalidated)
			}
		})
	}
}

func TestBookingService_CreateBooking_NoStorageOnValidationFailure(t *testing.T) {
	called := false
	store := &MockBookingStore{
		CreateWithReservationFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Event, error) {
			called = true
			return testEvent(100), nil
		},
	}
	svc := NewBookingService(&MockBookingRepository{}, store, nil)

	req := validCreateRequest()
	req.Attendees[0].Age = 200
	_, err := svc.CreateBooking(context.Background(), "user-001", req)

	if !errors.Is(err, domain.ErrInvalidAttendeeAge) {
		t.Errorf("CreateBooking() error = %v, want %v", err, domain.ErrInvalidAttendeeAge)
	}
	if called {
		t.Error("CreateBooking() touched storage despite validation failure")
	}
}

func TestBookingService_CancelBooking(t *testing.T) {
	confirmed := func() *domain.Booking {
		return &domain.Booking{
			ID:          "booking-001",
			EventID:     "event-001",
			UserID:      "user-001",
			TicketCount: 2,
			Attendees: []domain.Attendee{
				{Name: "Alice Smith", Age: 30, Email: "alice@example.com"},
				{Name: "Bob Jones", Age: 42, Email: "bob@example.com"},
			},
			TotalAmount: 100.00,
			Status:      domain.BookingStatusConfirmed,
		}
	}

	tests := []struct {
		name       string
		bookingID  string
		userID     string
		setupMocks func(*MockBookingRepository, *MockBookingStore)
		wantErr    error
	}{
		{
			name:      "successful cancellation",
			bookingID: "booking-001",
			userID:    "user-001",
			setupMocks: func(br *MockBookingRepository, s *MockBookingStore) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					return confirmed(), nil
				}
				s.CancelWithReleaseFunc = func(ctx context.Context, booking *domain.Booking) error {
					now := time.Now()
					booking.Status = domain.BookingStatusCancelled
					booking.CancelledAt = &now
					return nil
				}
			},
		},
		{
			name:      "missing booking id",
			bookingID: "",
			userID:    "user-001",
			wantErr:   domain.ErrInvalidBookingID,
		},
		{
			name:      "booking not found",
			bookingID: "booking-999",
			userID:    "user-001",
			setupMocks: func(br *MockBookingRepository, s *MockBookingStore) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					return nil, domain.ErrBookingNotFound
				}
			},
			wantErr: domain.ErrBookingNotFound,
		},
		{
			name:      "other user's booking reported as not found",
			bookingID: "booking-001",
			userID:    "user-002",
			setupMocks: func(br *MockBookingRepository, s *MockBookingStore) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					return confirmed(), nil
				}
			},
			wantErr: domain.ErrBookingNotFound,
		},
		{
			name:      "already cancelled",
			bookingID: "booking-001",
			userID:    "user-001",
			setupMocks: func(br *MockBookingRepository, s *MockBookingStore) {
				br.GetByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
					b := confirmed()
					b.Status = domain.BookingStatusCancelled
					return b, nil
				}
				s.CancelWithReleaseFunc = func(ctx context.Context, booking *domain.Booking) error {
					return domain.ErrBookingCancelled
				}
			},
			wantErr: domain.ErrBookingCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &MockBookingRepository{}
			store := &MockBookingStore{}
			if tt.setupMocks != nil {
				tt.setupMocks(bookingRepo, store)
			}
			cache := &MockCacheInvalidator{}
			svc := NewBookingService(bookingRepo, store, cache)

			resp, err := svc.CancelBooking(context.Background(), tt.bookingID, tt.userID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CancelBooking() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("CancelBooking() unexpected error = %v", err)
			}
			if resp.Status != domain.BookingStatusCancelled.String() {
				t.Errorf("CancelBooking() status = %v, want cancelled", resp.Status)
			}
			if len(cache.Invalidated) != 1 {
				t.Errorf("CancelBooking() cache invalidations = %v, want one", cache.Invalidated)
			}
		})
	}
}

func TestBookingService_GetUserBookings(t *testing.T) {
	rows := []*repository.BookingWithEvent{
		{
			Booking: &domain.Booking{
				ID:          "booking-002",
				EventID:     "event-001",
				UserID:      "user-001",
				TicketCount: 1,
				TotalAmount: 50.00,
				Status:      domain.BookingStatusConfirmed,
				CreatedAt:   time.Now(),
			},
			Event: testEvent(97),
		},
		{
			Booking: &domain.Booking{
				ID:          "booking-001",
				EventID:     "event-001",
				UserID:      "user-001",
				TicketCount: 2,
				TotalAmount: 100.00,
				Status:      domain.BookingStatusCancelled,
				CreatedAt:   time.Now().Add(-time.Hour),
			},
			Event: testEvent(97),
		},
	}

	repo := &MockBookingRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) ([]*repository.BookingWithEvent, error) {
			if userID != "user-001" {
				return []*repository.BookingWithEvent{}, nil
			}
			return rows, nil
		},
	}
	svc := NewBookingService(repo, &MockBookingStore{}, nil)

	got, err := svc.GetUserBookings(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("GetUserBookings() unexpected error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetUserBookings() returned %d bookings, want 2", len(got))
	}
	if got[0].ID != "booking-002" {
		t.Errorf("GetUserBookings() first booking = %s, want newest first", got[0].ID)
	}
	if got[0].Event.Title != "Summer Jazz Night" {
		t.Errorf("GetUserBookings() event title = %s", got[0].Event.Title)
	}

	if _, err := svc.GetUserBookings(context.Background(), ""); !errors.Is(err, domain.ErrInvalidUserID) {
		t.Errorf("GetUserBookings(\"\") error = %v, want %v", err, domain.ErrInvalidUserID)
	}
}

func TestBookingService_GetOrganizerBookings(t *testing.T) {
	repo := &MockBookingRepository{
		GetByOrganizerIDFunc: func(ctx context.Context, organizerID string) ([]*repository.BookingWithEvent, error) {
			return []*repository.BookingWithEvent{
				{
					Booking: &domain.Booking{
						ID:      "booking-001",
						EventID: "event-001",
						UserID:  "user-007",
						Status:  domain.BookingStatusConfirmed,
					},
					Event: testEvent(50),
				},
			}, nil
		},
	}
	svc := NewBookingService(repo, &MockBookingStore{}, nil)

	got, err := svc.GetOrganizerBookings(context.Background(), "organizer-001")
	if err != nil {
		t.Fatalf("GetOrganizerBookings() unexpected error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetOrganizerBookings() returned %d bookings, want 1", len(got))
	}

	if _, err := svc.GetOrganizerBookings(context.Background(), ""); !errors.Is(err, domain.ErrInvalidOrganizerID) {
		t.Errorf("GetOrganizerBookings(\"\") error = %v, want %v", err, domain.ErrInvalidOrganizerID)
	}
}
