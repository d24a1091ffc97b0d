package repository

import (
	"context"
	"time"

	"carpool/internal/domain"
)

// TripRepository defines the persistence operations for trips, including the
// capacity-ledger primitives that own all mutation of Trip.SeatsTaken.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// ListUpcoming retrieves trips departing after the given time, soonest
	// first, up to limit.
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]*domain.Trip, error)

	// CommitSeats increments the trip's committed-seats counter by seats,
	// but only if the counter still equals expectedTaken and the result does
	// not exceed the trip's total capacity. It returns false without
	// mutating when either condition fails, which means another operation
	// won the race and the caller must start over from a fresh read.
	CommitSeats(ctx context.Context, tripID string, seats, expectedTaken int) (bool, error)

	// ReleaseSeats decrements the committed-seats counter by seats. Used to
	// undo a commit when a later step fails, and when an accepted booking is
	// cancelled. Callers must never release the same booking's seats twice.
	ReleaseSeats(ctx context.Context, tripID string, seats int) error
}
