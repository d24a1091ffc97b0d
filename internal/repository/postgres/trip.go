package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, driver_id, origin, destination, total_seats, seats_taken, starts_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.Origin,
		trip.Destination,
		trip.TotalSeats,
		trip.SeatsTaken,
		trip.StartsAt,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, driver_id, origin, destination, total_seats, seats_taken, starts_at, created_at
		FROM trips WHERE id = $1
	`

	var trip domain.Trip
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.Origin,
		&trip.Destination,
		&trip.TotalSeats,
		&trip.SeatsTaken,
		&trip.StartsAt,
		&trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &trip, nil
}

// ListUpcoming retrieves trips departing after the given time, soonest first.
func (r *TripRepository) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]*domain.Trip, error) {
	query := `
		SELECT id, driver_id, origin, destination, total_seats, seats_taken, starts_at, created_at
		FROM trips
		WHERE starts_at > $1
		ORDER BY starts_at ASC
		LIMIT $2
	`

	rows, err := r.q.QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		if err := rows.Scan(
			&trip.ID,
			&trip.DriverID,
			&trip.Origin,
			&trip.Destination,
			&trip.TotalSeats,
			&trip.SeatsTaken,
			&trip.StartsAt,
			&trip.CreatedAt,
		); err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}

	return trips, rows.Err()
}

// CommitSeats performs the conditional capacity increment. The WHERE clause
// re-checks both the expected counter value and the capacity ceiling, so the
// update succeeds for at most one of any set of racing committers; everyone
// else sees zero affected rows.
func (r *TripRepository) CommitSeats(ctx context.Context, tripID string, seats, expectedTaken int) (bool, error) {
	query := `
		UPDATE trips
		SET seats_taken = seats_taken + $2
		WHERE id = $1
		  AND seats_taken = $3
		  AND seats_taken + $2 <= total_seats
	`

	result, err := r.q.ExecContext(ctx, query, tripID, seats, expectedTaken)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

// ReleaseSeats returns previously committed seats to the trip. The guard on
// seats_taken keeps the counter from ever going negative.
func (r *TripRepository) ReleaseSeats(ctx context.Context, tripID string, seats int) error {
	query := `
		UPDATE trips
		SET seats_taken = seats_taken - $2
		WHERE id = $1 AND seats_taken >= $2
	`

	result, err := r.q.ExecContext(ctx, query, tripID, seats)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
