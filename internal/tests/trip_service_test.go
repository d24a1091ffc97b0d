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
// TRIP CREATION AND LISTING
// ──────────────────────────────────────────────

func TestTrip_CreateValid(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, nil)

	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID:    "driver-1",
		Origin:      "Campus",
		Destination: "Airport",
		TotalSeats:  3,
		StartsAt:    time.Now().Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.SeatsTaken != 0 {
		t.Errorf("new trip must start with zero committed seats, got %d", trip.SeatsTaken)
	}
	if trip.SeatsAvailable() != 3 {
		t.Errorf("expected 3 available seats, got %d", trip.SeatsAvailable())
	}
	if tripRepo.GetTrip(trip.ID) == nil {
		t.Error("trip not persisted")
	}
}

func TestTrip_CreateValidation(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, nil)
	future := time.Now().Add(2 * time.Hour)

	cases := []struct {
		name string
		req  service.CreateTripRequest
		want error
	}{
		{"missing driver", service.CreateTripRequest{Origin: "A", Destination: "B", TotalSeats: 2, StartsAt: future}, service.ErrInvalidUserID},
		{"empty origin", service.CreateTripRequest{DriverID: "d-1", Destination: "B", TotalSeats: 2, StartsAt: future}, service.ErrInvalidRoute},
		{"empty destination", service.CreateTripRequest{DriverID: "d-1", Origin: "A", TotalSeats: 2, StartsAt: future}, service.ErrInvalidRoute},
		{"zero seats", service.CreateTripRequest{DriverID: "d-1", Origin: "A", Destination: "B", TotalSeats: 0, StartsAt: future}, service.ErrInvalidSeats},
		{"past departure", service.CreateTripRequest{DriverID: "d-1", Origin: "A", Destination: "B", TotalSeats: 2, StartsAt: time.Now().Add(-time.Hour)}, service.ErrInvalidDeparture},
		{"zero departure", service.CreateTripRequest{DriverID: "d-1", Origin: "A", Destination: "B", TotalSeats: 2}, service.ErrInvalidDeparture},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateTrip(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTrip_GetMissing(t *testing.T) {
	t.Parallel()

	svc := service.NewTripService(NewMockTripRepository(), nil)
	_, err := svc.GetTrip(context.Background(), "nonexistent")
	if !errors.Is(err, service.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestTrip_ListUpcomingExcludesDeparted(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, nil)
	ctx := context.Background()

	upcoming, err := svc.CreateTrip(ctx, service.CreateTripRequest{
		DriverID:    "driver-1",
		Origin:      "Campus",
		Destination: "Airport",
		TotalSeats:  3,
		StartsAt:    time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A trip already underway never appears in the public listing.
	tripRepo.AddTrip(&domain.Trip{
		ID:          "departed",
		DriverID:    "driver-2",
		Origin:      "Campus",
		Destination: "Downtown",
		TotalSeats:  2,
		StartsAt:    time.Now().Add(-time.Hour),
	})

	trips, err := svc.ListUpcomingTrips(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(trips) != 1 {
		t.Fatalf("expected 1 upcoming trip, got %d", len(trips))
	}
	if trips[0].ID != upcoming.ID {
		t.Errorf("expected trip %s, got %s", upcoming.ID, trips[0].ID)
	}
}
