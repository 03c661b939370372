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

// BookingService defines the interface for booking business logic
type BookingService interface {
	// CreateBooking validates the request and books tickets atomically
	CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)

	// CancelBooking cancels a confirmed booking and returns its tickets
	CancelBooking(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error)

	// GetBooking retrieves a booking by ID
	GetBooking(ctx context.Context, bookingID, userID string) (*dto.BookingResponse, error)

	// GetUserBookings retrieves all bookings for a user, newest first
	GetUserBookings(ctx context.Context, userID string) ([]*dto.UserBookingResponse, error)

	// GetOrganizerBookings retrieves all bookings across an organizer's
	// events, newest first
	GetOrganizerBookings(ctx context.Context, organizerID string) ([]*dto.UserBookingResponse, error)
}

// CacheInvalidator drops cached event entries after a booking mutation
// commits, so listings do not serve stale availability.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, eventID string)
}

// bookingService implements BookingService
type bookingService struct {
	bookingRepo repository.BookingRepository
	store       repository.BookingStore
	cache       CacheInvalidator
}

// NewBookingService creates a new booking service. cache may be nil.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	store repository.BookingStore,
	cache CacheInvalidator,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		store:       store,
		cache:       cache,
	}
}

// CreateBooking validates the request and books tickets atomically
func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}
	if req == nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, domain.ErrInvalidTicketCount
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:          uuid.New().String(),
		EventID:     req.EventID,
		UserID:      userID,
		TicketCount: req.TicketCount,
		Attendees:   req.ToAttendees(),
		Status:      domain.BookingStatusConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// All field validation happens before any storage is touched
	if err := booking.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("event_id", booking.EventID),
		attribute.String("user_id", userID),
		attribute.Int("ticket_count", booking.TicketCount),
	)

	// Reservation, price snapshot, booking insert and outbox insert commit
	// or roll back as one unit
	event, err := s.store.CreateWithReservation(ctx, booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, event.ID)
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewBookingResponse(booking), nil
}

// CancelBooking cancels a confirmed booking and returns its tickets
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*dto.CancelBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	if strings.TrimSpace(bookingID) == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}
	if strings.TrimSpace(userID) == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Ownership failures are reported as not-found so booking IDs cannot
	// be probed across users
	if !booking.BelongsToUser(userID) {
		span.SetStatus(codes.Error, "not owner")
		return nil, domain.ErrBookingNotFound
	}

	if err := s.store.CancelWithRelease(ctx, booking); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, booking.EventID)
	}

	span.SetStatus(codes.Ok, "")
	return &dto.CancelBookingResponse{
		BookingID: booking.ID,
		Status:    booking.Status.String(),
	}, nil
}

// GetBooking retrieves a booking by ID
func (s *bookingService) GetBooking(ctx context.Context, bookingID, userID string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
	defer span.End()

	if strings.TrimSpace(bookingID) == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !booking.BelongsToUser(userID) {
		span.SetStatus(codes.Error, "not owner")
		return nil, domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewBookingResponse(booking), nil
}

// GetUserBookings retrieves all bookings for a user, newest first
func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]*dto.UserBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get_user_bookings")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	rows, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(rows)))
	span.SetStatus(codes.Ok, "")
	return toUserBookingResponses(rows), nil
}

// GetOrganizerBookings retrieves all bookings across an organizer's events
func (s *bookingService) GetOrganizerBookings(ctx context.Context, organizerID string) ([]*dto.UserBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get_organizer_bookings")
	defer span.End()

	if strings.TrimSpace(organizerID) == "" {
		span.SetStatus(codes.Error, "invalid organizer_id")
		return nil, domain.ErrInvalidOrganizerID
	}

	rows, err := s.bookingRepo.GetByOrganizerID(ctx, organizerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(rows)))
	span.SetStatus(codes.Ok, "")
	return toUserBookingResponses(rows), nil
}

func toUserBookingResponses(rows []*repository.BookingWithEvent) []*dto.UserBookingResponse {
	out := make([]*dto.UserBookingResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, &dto.UserBookingResponse{
			BookingResponse: *dto.NewBookingResponse(row.Booking),
			Event: dto.BookingEventInfo{
				ID:    row.Event.ID,
				Title: row.Event.Title,
				Venue: row.Event.Venue,
				Date:  row.Event.Date,
				Price: row.Event.Price,
			},
		})
	}
	return out
}

// Ensure bookingService implements BookingService
var _ BookingService = (*bookingService)(nil)
