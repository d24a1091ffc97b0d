package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// BOOKING LIFECYCLE
// ──────────────────────────────────────────────

func newBookingService(store *MemoryStore) *service.BookingService {
	return service.NewBookingService(store, 10, nil, nil)
}

func addTrip(store *MemoryStore, id, driverID string, totalSeats, seatsTaken int) {
	store.TripRepo.AddTrip(&domain.Trip{
		ID:          id,
		DriverID:    driverID,
		Origin:      "Campus",
		Destination: "Airport",
		TotalSeats:  totalSeats,
		SeatsTaken:  seatsTaken,
		StartsAt:    time.Now().Add(24 * time.Hour),
		CreatedAt:   time.Now(),
	})
}

func addBooking(store *MemoryStore, id, tripID, passengerID string, seats int, status domain.BookingStatus) {
	now := time.Now()
	store.BookingRepo.AddBooking(&domain.Booking{
		ID:              id,
		TripID:          tripID,
		PassengerID:     passengerID,
		SeatsRequested:  seats,
		Status:          status,
		CreatedAt:       now,
		StatusChangedAt: now,
	})
}

func TestBooking_AcceptHappyPath(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusPending)

	svc := newBookingService(store)
	resp, err := svc.Accept(context.Background(), service.AcceptBookingRequest{
		BookingID: "booking-1",
		DriverID:  "driver-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Booking.Status != domain.BookingStatusAccepted {
		t.Errorf("expected status %s, got %s", domain.BookingStatusAccepted, resp.Booking.Status)
	}
	if resp.SeatsTaken != 2 || resp.TotalSeats != 4 {
		t.Errorf("expected 2/4 seats, got %d/%d", resp.SeatsTaken, resp.TotalSeats)
	}
	if got := store.TripRepo.SeatsTaken("trip-1"); got != 2 {
		t.Errorf("expected seats_taken=2, got %d", got)
	}
	if stored := store.BookingRepo.GetBooking("booking-1"); stored.Status != domain.BookingStatusAccepted {
		t.Errorf("stored booking not accepted: %s", stored.Status)
	}
}

func TestBooking_AcceptTwice_ReturnsAlreadyAccepted(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusPending)

	svc := newBookingService(store)
	ctx := context.Background()

	if _, err := svc.Accept(ctx, service.AcceptBookingRequest{BookingID: "booking-1", DriverID: "driver-1"}); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}

	_, err := svc.Accept(ctx, service.AcceptBookingRequest{BookingID: "booking-1", DriverID: "driver-1"})
	if !errors.Is(err, service.ErrAlreadyAccepted) {
		t.Fatalf("expected ErrAlreadyAccepted, got %v", err)
	}

	// Seats must be committed exactly once.
	if got := store.TripRepo.SeatsTaken("trip-1"); got != 2 {
		t.Errorf("expected seats_taken=2 after duplicate accept, got %d", got)
	}
	if store.TripRepo.CommitSeatsCallCount != 1 {
		t.Errorf("expected 1 CommitSeats call, got %d", store.TripRepo.CommitSeatsCallCount)
	}
}

func TestBooking_AcceptByNonOwner_MutatesNothing(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusPending)

	svc := newBookingService(store)
	_, err := svc.Accept(context.Background(), service.AcceptBookingRequest{
		BookingID: "booking-1",
		DriverID:  "driver-2",
	})
	if !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if got := store.TripRepo.SeatsTaken("trip-1"); got != 0 {
		t.Errorf("seats mutated by rejected accept: %d", got)
	}
	if stored := store.BookingRepo.GetBooking("booking-1"); stored.Status != domain.BookingStatusPending {
		t.Errorf("booking mutated by rejected accept: %s", stored.Status)
	}
	if store.TripRepo.CommitSeatsCallCount != 0 {
		t.Errorf("CommitSeats called %d times for a non-owner", store.TripRepo.CommitSeatsCallCount)
	}
}

func TestBooking_AcceptByNonOwner_OnAcceptedBooking(t *testing.T) {
	t.Parallel()

	// Ownership is checked before the status, so a non-owner sees
	// NOT_OWNER even when the booking is no longer pending.
	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 2)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusAccepted)

	svc := newBookingService(store)
	_, err := svc.Accept(context.Background(), service.AcceptBookingRequest{
		BookingID: "booking-1",
		DriverID:  "driver-2",
	})
	if !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestBooking_AcceptWhenFull(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 3, 2)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusPending)

	svc := newBookingService(store)
	_, err := svc.Accept(context.Background(), service.AcceptBookingRequest{
		BookingID: "booking-1",
		DriverID:  "driver-1",
	})
	if !errors.Is(err, service.ErrTripFull) {
		t.Fatalf("expected ErrTripFull, got %v", err)
	}

	if got := store.TripRepo.SeatsTaken("trip-1"); got != 2 {
		t.Errorf("seats mutated by failed accept: %d", got)
	}
	if stored := store.BookingRepo.GetBooking("booking-1"); stored.Status != domain.BookingStatusPending {
		t.Errorf("booking must stay pending when the trip is full, got %s", stored.Status)
	}
}

func TestBooking_AcceptMissingBooking(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	svc := newBookingService(store)

	_, err := svc.Accept(context.Background(), service.AcceptBookingRequest{
		BookingID: "nonexistent",
		DriverID:  "driver-1",
	})
	if !errors.Is(err, service.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestBooking_RejectPending(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusPending)

	svc := newBookingService(store)
	rejected, err := svc.Reject(context.Background(), service.RejectBookingRequest{
		BookingID: "booking-1",
		DriverID:  "driver-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rejected.Status != domain.BookingStatusRejected {
		t.Errorf("expected status %s, got %s", domain.BookingStatusRejected, rejected.Status)
	}
	// Rejection never touches the capacity ledger.
	if store.TripRepo.CommitSeatsCallCount != 0 || store.TripRepo.ReleaseSeatsCallCount != 0 {
		t.Error("reject touched the capacity ledger")
	}
}

func TestBooking_RejectAcceptedBooking(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 2)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusAccepted)

	svc := newBookingService(store)
	_, err := svc.Reject(context.Background(), service.RejectBookingRequest{
		BookingID: "booking-1",
		DriverID:  "driver-1",
	})
	if !errors.Is(err, service.ErrAlreadyAccepted) {
		t.Fatalf("expected ErrAlreadyAccepted, got %v", err)
	}

	if got := store.TripRepo.SeatsTaken("trip-1"); got != 2 {
		t.Errorf("seats mutated by failed reject: %d", got)
	}
}

func TestBooking_CancelAcceptedReleasesSeats(t *testing.T) {
	t.Parallel()

	// Trip has 3 committed seats, 2 of them held by the booking under test.
	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 5, 3)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusAccepted)

	svc := newBookingService(store)
	resp, err := svc.Cancel(context.Background(), service.CancelBookingRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Booking.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCancelled, resp.Booking.Status)
	}
	if resp.SeatsTaken != 1 {
		t.Errorf("expected seats_taken=1 after release, got %d", resp.SeatsTaken)
	}
	if got := store.TripRepo.SeatsTaken("trip-1"); got != 1 {
		t.Errorf("expected seats_taken=1, got %d", got)
	}
}

func TestBooking_CancelPending_DoesNotTouchLedger(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 1)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusPending)

	svc := newBookingService(store)
	resp, err := svc.Cancel(context.Background(), service.CancelBookingRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Booking.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCancelled, resp.Booking.Status)
	}
	if store.TripRepo.ReleaseSeatsCallCount != 0 {
		t.Error("cancel of a pending booking released seats")
	}
	if got := store.TripRepo.SeatsTaken("trip-1"); got != 1 {
		t.Errorf("expected seats_taken=1, got %d", got)
	}
}

func TestBooking_CancelByNonPassenger(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusPending)

	svc := newBookingService(store)
	_, err := svc.Cancel(context.Background(), service.CancelBookingRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-2",
	})
	if !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestBooking_CancelRejectedBooking(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)
	addBooking(store, "booking-1", "trip-1", "passenger-1", 2, domain.BookingStatusRejected)

	svc := newBookingService(store)
	_, err := svc.Cancel(context.Background(), service.CancelBookingRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
	})
	if !errors.Is(err, service.ErrBookingNotPending) {
		t.Fatalf("expected ErrBookingNotPending, got %v", err)
	}
}

func TestBooking_CreateRequest_Validation(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)
	svc := newBookingService(store)
	ctx := context.Background()

	cases := []struct {
		name string
		req  service.CreateBookingRequest
		want error
	}{
		{"zero seats", service.CreateBookingRequest{TripID: "trip-1", PassengerID: "p-1", Seats: 0}, service.ErrInvalidSeats},
		{"over per-request cap", service.CreateBookingRequest{TripID: "trip-1", PassengerID: "p-1", Seats: 11}, service.ErrInvalidSeats},
		{"missing trip id", service.CreateBookingRequest{PassengerID: "p-1", Seats: 1}, service.ErrInvalidTripID},
		{"missing passenger", service.CreateBookingRequest{TripID: "trip-1", Seats: 1}, service.ErrInvalidUserID},
		{"unknown trip", service.CreateBookingRequest{TripID: "trip-9", PassengerID: "p-1", Seats: 1}, service.ErrTripNotFound},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateRequest(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBooking_CreateRequest_StartsPending(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)

	svc := newBookingService(store)
	booking, err := svc.CreateRequest(context.Background(), service.CreateBookingRequest{
		TripID:      "trip-1",
		PassengerID: "passenger-1",
		Seats:       3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected status %s, got %s", domain.BookingStatusPending, booking.Status)
	}
	// Requesting seats must not commit capacity.
	if got := store.TripRepo.SeatsTaken("trip-1"); got != 0 {
		t.Errorf("request committed capacity: seats_taken=%d", got)
	}
}

func TestBooking_FullLifecycle_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)

	svc := newBookingService(store)
	ctx := context.Background()

	booking, err := svc.CreateRequest(ctx, service.CreateBookingRequest{
		TripID:      "trip-1",
		PassengerID: "passenger-1",
		Seats:       2,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Accept(ctx, service.AcceptBookingRequest{BookingID: booking.ID, DriverID: "driver-1"}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got := store.TripRepo.SeatsTaken("trip-1"); got != 2 {
		t.Fatalf("expected seats_taken=2 after accept, got %d", got)
	}

	if _, err := svc.Cancel(ctx, service.CancelBookingRequest{BookingID: booking.ID, PassengerID: "passenger-1"}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// The round trip must leave the capacity ledger where it started.
	if got := store.TripRepo.SeatsTaken("trip-1"); got != 0 {
		t.Errorf("expected seats_taken=0 after cancel, got %d", got)
	}
}

func TestBooking_ListPendingForDriver(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)
	addTrip(store, "trip-2", "driver-2", 4, 0)
	addBooking(store, "booking-1", "trip-1", "p-1", 1, domain.BookingStatusPending)
	addBooking(store, "booking-2", "trip-1", "p-2", 1, domain.BookingStatusRejected)
	addBooking(store, "booking-3", "trip-2", "p-3", 1, domain.BookingStatusPending)

	svc := newBookingService(store)
	pending, err := svc.ListPendingForDriver(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pending) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(pending))
	}
	if pending[0].ID != "booking-1" {
		t.Errorf("expected booking-1, got %s", pending[0].ID)
	}
}

func TestBooking_NotifiesDriverOnRequest(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	addTrip(store, "trip-1", "driver-1", 4, 0)

	publisher := NewMockEventPublisher()
	svc := service.NewBookingService(store, 10, nil, service.NewNotificationService(publisher))

	booking, err := svc.CreateRequest(context.Background(), service.CreateBookingRequest{
		TripID:      "trip-1",
		PassengerID: "passenger-1",
		Seats:       1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Publishing is fire-and-forget; poll briefly for the event.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(publisher.Events()) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(events))
	}
	if events[0].BookingID != booking.ID {
		t.Errorf("expected event for %s, got %s", booking.ID, events[0].BookingID)
	}
	if events[0].RecipientID != "driver-1" {
		t.Errorf("expected driver-1 as recipient, got %s", events[0].RecipientID)
	}
}
