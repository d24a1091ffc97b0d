package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"carpool/internal/repository"
)

// Store is the PostgreSQL implementation of repository.Store.
//
// ExecTx opens one database transaction and hands the callback
// transaction-scoped repositories; conditional UPDATEs inside the
// transaction are what arbitrate concurrent operations, so the default
// isolation level is sufficient.
type Store struct {
	db       *sql.DB
	trips    *TripRepository
	bookings *BookingRepository
}

// NewStore creates a new PostgreSQL store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		trips:    NewTripRepository(db),
		bookings: NewBookingRepository(db),
	}
}

// ExecTx runs fn inside a single transaction and commits only if fn
// returns nil. Any error from fn rolls the transaction back.
func (s *Store) ExecTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	repos := repository.Repositories{
		Trips:    NewTripRepositoryWithTx(tx),
		Bookings: NewBookingRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Trips returns the non-transactional trip repository.
func (s *Store) Trips() repository.TripRepository {
	return s.trips
}

// Bookings returns the non-transactional booking repository.
func (s *Store) Bookings() repository.BookingRepository {
	return s.bookings
}

// Ensure Store implements repository.Store.
var _ repository.Store = (*Store)(nil)
