package service

import "errors"

var (
	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidUserID is returned when the acting user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidSeats is returned when the requested seat count is out of bounds.
	ErrInvalidSeats = errors.New("invalid seat count")

	// ErrInvalidRoute is returned when a trip's origin or destination is empty.
	ErrInvalidRoute = errors.New("invalid origin or destination")

	// ErrInvalidDeparture is returned when a trip's departure time is missing or in the past.
	ErrInvalidDeparture = errors.New("invalid departure time")

	// ErrTripNotFound is returned when the referenced trip does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrBookingNotFound is returned when the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrNotOwner is returned when the acting user is not allowed to perform
	// the operation: accept/reject require the trip's driver, cancel requires
	// the booking's passenger.
	ErrNotOwner = errors.New("not the owner")

	// ErrAlreadyAccepted is returned when the booking is already accepted.
	// This is an idempotency signal, not a failure requiring retry.
	ErrAlreadyAccepted = errors.New("booking already accepted")

	// ErrAlreadyRejected is returned when the booking is already rejected.
	ErrAlreadyRejected = errors.New("booking already rejected")

	// ErrBookingNotPending is returned when the booking is in a state the
	// requested transition does not start from.
	ErrBookingNotPending = errors.New("booking not pending")

	// ErrTripFull is returned when the trip has no capacity left for the
	// requested seats at decision time.
	ErrTripFull = errors.New("trip is full")

	// ErrConcurrencyConflict is returned when a concurrent operation won the
	// race on the same trip or booking. The whole operation is safe to retry
	// from a fresh read; no partial mutation is retained.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)

// Wire codes for the booking error taxonomy, surfaced to API callers so they
// can distinguish retryable conflicts from permanent failures.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeTripNotFound        = "TRIP_NOT_FOUND"
	CodeBookingNotFound     = "BOOKING_NOT_FOUND"
	CodeNotOwner            = "NOT_OWNER"
	CodeAlreadyAccepted     = "ALREADY_ACCEPTED"
	CodeAlreadyRejected     = "ALREADY_REJECTED"
	CodeBookingNotPending   = "BOOKING_NOT_PENDING"
	CodeTripFull            = "TRIP_FULL"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeUnknown             = "UNKNOWN"
)

// CodeOf maps a service error to its wire code. Unexpected errors (storage
// faults and the like) map to UNKNOWN and are surfaced generically.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTripID),
		errors.Is(err, ErrInvalidBookingID),
		errors.Is(err, ErrInvalidUserID),
		errors.Is(err, ErrInvalidSeats),
		errors.Is(err, ErrInvalidRoute),
		errors.Is(err, ErrInvalidDeparture):
		return CodeInvalidInput
	case errors.Is(err, ErrTripNotFound):
		return CodeTripNotFound
	case errors.Is(err, ErrBookingNotFound):
		return CodeBookingNotFound
	case errors.Is(err, ErrNotOwner):
		return CodeNotOwner
	case errors.Is(err, ErrAlreadyAccepted):
		return CodeAlreadyAccepted
	case errors.Is(err, ErrAlreadyRejected):
		return CodeAlreadyRejected
	case errors.Is(err, ErrBookingNotPending):
		return CodeBookingNotPending
	case errors.Is(err, ErrTripFull):
		return CodeTripFull
	case errors.Is(err, ErrConcurrencyConflict):
		return CodeConcurrencyConflict
	default:
		return CodeUnknown
	}
}
