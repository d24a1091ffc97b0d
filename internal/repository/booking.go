package repository

import (
	"context"
	"time"

	"carpool/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// TransitionStatus conditionally moves a booking from one status to
	// another, recording when the change happened. It returns false without
	// mutating if the booking's current status is not from, which means a
	// concurrent operation already transitioned it.
	TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) (bool, error)

	// ListPendingByDriver retrieves pending bookings against trips owned by
	// the given driver, newest first.
	ListPendingByDriver(ctx context.Context, driverID string) ([]*domain.Booking, error)

	// ListByPassenger retrieves all bookings created by the given passenger,
	// newest first.
	ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Booking, error)
}
