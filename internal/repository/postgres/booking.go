package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, trip_id, passenger_id, seats_requested, status, created_at, status_changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.TripID,
		booking.PassengerID,
		booking.SeatsRequested,
		booking.Status,
		booking.CreatedAt,
		booking.StatusChangedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, trip_id, passenger_id, seats_requested, status, created_at, status_changed_at
		FROM bookings WHERE id = $1
	`

	var booking domain.Booking
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.TripID,
		&booking.PassengerID,
		&booking.SeatsRequested,
		&booking.Status,
		&booking.CreatedAt,
		&booking.StatusChangedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &booking, nil
}

// TransitionStatus performs the conditional status write. The WHERE clause
// guards on the expected current status, so of any set of racing transitions
// on the same booking exactly one sees an affected row.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3, status_changed_at = $4
		WHERE id = $1 AND status = $2
	`

	result, err := r.q.ExecContext(ctx, query, id, from, to, at)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

// ListPendingByDriver retrieves pending bookings against the driver's trips,
// newest first.
func (r *BookingRepository) ListPendingByDriver(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	query := `
		SELECT b.id, b.trip_id, b.passenger_id, b.seats_requested, b.status, b.created_at, b.status_changed_at
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		WHERE t.driver_id = $1 AND b.status = $2
		ORDER BY b.created_at DESC
	`

	return r.list(ctx, query, driverID, domain.BookingStatusPending)
}

// ListByPassenger retrieves the passenger's bookings, newest first.
func (r *BookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	query := `
		SELECT id, trip_id, passenger_id, seats_requested, status, created_at, status_changed_at
		FROM bookings
		WHERE passenger_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, passengerID)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.TripID,
			&booking.PassengerID,
			&booking.SeatsRequested,
			&booking.Status,
			&booking.CreatedAt,
			&booking.StatusChangedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
