package domain

import "errors"

// Domain errors
var (
	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingCancelled     = errors.New("booking already cancelled")
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// Validation errors
	ErrInvalidUserID         = errors.New("invalid user id")
	ErrInvalidBookingID      = errors.New("invalid booking id")
	ErrInvalidEventID        = errors.New("invalid event id")
	ErrInvalidTicketCount    = errors.New("ticket count must be greater than zero")
	ErrAttendeeCountMismatch = errors.New("attendee count must match ticket count")
	ErrInvalidAttendeeName   = errors.New("attendee name is required")
	ErrInvalidAttendeeAge    = errors.New("attendee age must be between 1 and 119")
	ErrInvalidAttendeeEmail  = errors.New("attendee email is invalid")
	ErrInvalidTitle          = errors.New("event title is required and must be at most 60 characters")
	ErrInvalidDescription    = errors.New("event description is required")
	ErrInvalidVenue          = errors.New("event venue is required")
	ErrInvalidPrice          = errors.New("event price cannot be negative")
	ErrInvalidCapacity       = errors.New("event capacity must be greater than zero")
	ErrInvalidOrganizerID    = errors.New("invalid organizer id")

	// Availability errors
	ErrInsufficientTickets = errors.New("not enough tickets available")

	// Event errors
	ErrEventNotFound = errors.New("event not found")

	// Outbox errors
	ErrOutboxMessageNotFound = errors.New("outbox message not found")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrOutboxMessageNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidEventID) ||
		errors.Is(err, ErrInvalidTicketCount) ||
		errors.Is(err, ErrAttendeeCountMismatch) ||
		errors.Is(err, ErrInvalidAttendeeName) ||
		errors.Is(err, ErrInvalidAttendeeAge) ||
		errors.Is(err, ErrInvalidAttendeeEmail) ||
		errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidDescription) ||
		errors.Is(err, ErrInvalidVenue) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, ErrInvalidOrganizerID)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrInsufficientTickets) ||
		errors.Is(err, ErrBookingCancelled) ||
		errors.Is(err, ErrInvalidBookingStatus)
}
