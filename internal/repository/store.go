package repository

import "context"

// Repositories bundles the repositories visible inside one transaction.
type Repositories struct {
	Trips    TripRepository
	Bookings BookingRepository
}

// Store provides transactional access to the trip and booking repositories.
//
// ExecTx runs fn inside a single transaction: every read and conditional
// write fn performs either commits as a whole or leaves no trace. Returning
// an error from fn aborts the transaction. This is the atomic unit the
// booking lifecycle relies on; the conditional writes inside it are what
// arbitrate races between concurrent operations.
type Store interface {
	ExecTx(ctx context.Context, fn func(r Repositories) error) error

	// Trips returns a repository for non-transactional trip reads.
	Trips() TripRepository

	// Bookings returns a repository for non-transactional booking reads.
	Bookings() BookingRepository
}
