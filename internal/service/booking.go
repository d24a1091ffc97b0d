package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// BookingService is the booking lifecycle engine. It orchestrates request
// creation, accept, reject and cancel against the trip capacity ledger and
// the booking store, each operation inside a single transaction.
//
// Accept follows a two-phase protocol: phase 1 conditionally commits seats
// against the capacity counter read in the same transaction; phase 2
// conditionally transitions the booking status. A phase-2 failure triggers a
// mandatory phase-1 undo, so no failure path leaves seats committed without
// an accepted booking backing them.
type BookingService struct {
	store               repository.Store
	maxSeatsPerRequest  int
	cacheStore          *redis.CacheStore
	notificationService *NotificationService
}

// NewBookingService creates a new BookingService. cacheStore and
// notificationService are optional.
func NewBookingService(
	store repository.Store,
	maxSeatsPerRequest int,
	cacheStore *redis.CacheStore,
	notificationService *NotificationService,
) *BookingService {
	return &BookingService{
		store:               store,
		maxSeatsPerRequest:  maxSeatsPerRequest,
		cacheStore:          cacheStore,
		notificationService: notificationService,
	}
}

// CreateBookingRequest contains the parameters for requesting seats on a trip.
type CreateBookingRequest struct {
	TripID      string
	PassengerID string
	Seats       int
}

// CreateRequest creates a pending booking for the passenger. Capacity is not
// touched here: seats are only committed when the driver accepts.
func (s *BookingService) CreateRequest(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.PassengerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Seats < 1 || req.Seats > s.maxSeatsPerRequest {
		return nil, ErrInvalidSeats
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:              uuid.New().String(),
		TripID:          req.TripID,
		PassengerID:     req.PassengerID,
		SeatsRequested:  req.Seats,
		Status:          domain.BookingStatusPending,
		CreatedAt:       now,
		StatusChangedAt: now,
	}

	var driverID string
	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		trip, err := r.Trips.GetByID(ctx, req.TripID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTripNotFound
			}
			return err
		}
		driverID = trip.DriverID

		return r.Bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingRequested(ctx, booking, driverID)
	}

	return booking, nil
}

// AcceptBookingRequest contains the parameters for accepting a booking.
type AcceptBookingRequest struct {
	BookingID string
	DriverID  string
}

// AcceptBookingResponse contains the result of a successful accept.
type AcceptBookingResponse struct {
	Booking    *domain.Booking
	SeatsTaken int
	TotalSeats int
}

// Accept commits the booking's seats against the trip and transitions the
// booking to ACCEPTED. Only the trip's driver may accept. Exactly one of any
// set of racing operations on the same capacity or booking succeeds; the
// rest observe ErrTripFull or ErrConcurrencyConflict and mutate nothing.
func (s *BookingService) Accept(ctx context.Context, req AcceptBookingRequest) (*AcceptBookingResponse, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidUserID
	}

	var resp *AcceptBookingResponse
	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		booking, err := r.Bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		trip, err := r.Trips.GetByID(ctx, booking.TripID)
		if err != nil {
			// A booking referencing a missing trip means corrupted data.
			return fmt.Errorf("booking %s references missing trip %s: %w", booking.ID, booking.TripID, err)
		}

		if trip.DriverID != req.DriverID {
			return ErrNotOwner
		}

		switch booking.Status {
		case domain.BookingStatusPending:
			// Proceed.
		case domain.BookingStatusAccepted:
			return ErrAlreadyAccepted
		case domain.BookingStatusRejected:
			return ErrAlreadyRejected
		default:
			return ErrBookingNotPending
		}

		if trip.SeatsTaken+booking.SeatsRequested > trip.TotalSeats {
			return ErrTripFull
		}

		// Phase 1: conditional capacity commit against the counter value
		// read in this transaction.
		committed, err := r.Trips.CommitSeats(ctx, trip.ID, booking.SeatsRequested, trip.SeatsTaken)
		if err != nil {
			return err
		}
		if !committed {
			// A concurrent accept consumed the capacity first.
			return ErrConcurrencyConflict
		}

		// Phase 2: conditional status transition. If it fails, another
		// operation changed the booking in the same instant (e.g. the
		// passenger cancelled), and the seats just committed must be
		// released before reporting the conflict.
		now := time.Now()
		transitioned, err := r.Bookings.TransitionStatus(ctx, booking.ID, domain.BookingStatusPending, domain.BookingStatusAccepted, now)
		if err == nil && !transitioned {
			err = ErrConcurrencyConflict
		}
		if err != nil {
			if releaseErr := r.Trips.ReleaseSeats(ctx, trip.ID, booking.SeatsRequested); releaseErr != nil {
				return releaseErr
			}
			return err
		}

		updated, err := r.Trips.GetByID(ctx, trip.ID)
		if err != nil {
			return err
		}

		booking.Status = domain.BookingStatusAccepted
		booking.StatusChangedAt = now
		resp = &AcceptBookingResponse{
			Booking:    booking,
			SeatsTaken: updated.SeatsTaken,
			TotalSeats: updated.TotalSeats,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTripCaches(ctx, resp.Booking.TripID)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingAccepted(ctx, resp.Booking)
	}

	return resp, nil
}

// RejectBookingRequest contains the parameters for rejecting a booking.
type RejectBookingRequest struct {
	BookingID string
	DriverID  string
}

// Reject transitions a pending booking to REJECTED. Rejected bookings never
// held capacity, so the ledger is not touched.
func (s *BookingService) Reject(ctx context.Context, req RejectBookingRequest) (*domain.Booking, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidUserID
	}

	var rejected *domain.Booking
	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		booking, err := r.Bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		trip, err := r.Trips.GetByID(ctx, booking.TripID)
		if err != nil {
			return fmt.Errorf("booking %s references missing trip %s: %w", booking.ID, booking.TripID, err)
		}

		if trip.DriverID != req.DriverID {
			return ErrNotOwner
		}

		switch booking.Status {
		case domain.BookingStatusPending:
			// Proceed.
		case domain.BookingStatusAccepted:
			return ErrAlreadyAccepted
		case domain.BookingStatusRejected:
			return ErrAlreadyRejected
		default:
			return ErrBookingNotPending
		}

		now := time.Now()
		transitioned, err := r.Bookings.TransitionStatus(ctx, booking.ID, domain.BookingStatusPending, domain.BookingStatusRejected, now)
		if err != nil {
			return err
		}
		if !transitioned {
			return ErrConcurrencyConflict
		}

		booking.Status = domain.BookingStatusRejected
		booking.StatusChangedAt = now
		rejected = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingRejected(ctx, rejected)
	}

	return rejected, nil
}

// CancelBookingRequest contains the parameters for cancelling a booking.
type CancelBookingRequest struct {
	BookingID   string
	PassengerID string
}

// CancelBookingResponse contains the result of a successful cancel.
type CancelBookingResponse struct {
	Booking    *domain.Booking
	SeatsTaken int
	TotalSeats int
}

// Cancel transitions the passenger's booking to CANCELLED. If the booking
// was accepted, its seats are returned to the trip in the same transaction.
// The status transition runs first: its conditional write succeeds for at
// most one canceller, which guarantees the seats of a booking are released
// exactly once.
func (s *BookingService) Cancel(ctx context.Context, req CancelBookingRequest) (*CancelBookingResponse, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.PassengerID == "" {
		return nil, ErrInvalidUserID
	}

	var resp *CancelBookingResponse
	var releasedSeats bool
	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		booking, err := r.Bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.PassengerID != req.PassengerID {
			return ErrNotOwner
		}

		wasAccepted := false
		switch booking.Status {
		case domain.BookingStatusPending:
		case domain.BookingStatusAccepted:
			wasAccepted = true
		default:
			// Rejected and already-cancelled bookings have nothing to cancel.
			return ErrBookingNotPending
		}

		now := time.Now()
		transitioned, err := r.Bookings.TransitionStatus(ctx, booking.ID, booking.Status, domain.BookingStatusCancelled, now)
		if err != nil {
			return err
		}
		if !transitioned {
			return ErrConcurrencyConflict
		}

		if wasAccepted {
			if err := r.Trips.ReleaseSeats(ctx, booking.TripID, booking.SeatsRequested); err != nil {
				return err
			}
			releasedSeats = true
		}

		trip, err := r.Trips.GetByID(ctx, booking.TripID)
		if err != nil {
			return err
		}

		booking.Status = domain.BookingStatusCancelled
		booking.StatusChangedAt = now
		resp = &CancelBookingResponse{
			Booking:    booking,
			SeatsTaken: trip.SeatsTaken,
			TotalSeats: trip.TotalSeats,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if releasedSeats {
		s.invalidateTripCaches(ctx, resp.Booking.TripID)
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCancelled(ctx, resp.Booking)
	}

	return resp, nil
}

// ListPendingForDriver retrieves the pending requests against the driver's
// trips. This is a read-only projection, eventually consistent with the
// lifecycle writes.
func (s *BookingService) ListPendingForDriver(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}

	return s.store.Bookings().ListPendingByDriver(ctx, driverID)
}

// ListForPassenger retrieves the passenger's bookings, newest first.
func (s *BookingService) ListForPassenger(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}

	return s.store.Bookings().ListByPassenger(ctx, passengerID)
}

// invalidateTripCaches drops the cached trip and the public listing after a
// capacity change so readers see fresh seat counts.
func (s *BookingService) invalidateTripCaches(ctx context.Context, tripID string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateTrip(ctx, tripID)
	_ = s.cacheStore.InvalidateUpcomingTrips(ctx)
}
