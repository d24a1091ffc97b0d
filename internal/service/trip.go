package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// Number of trips returned by the public listing.
const upcomingTripsLimit = 50

// TripService handles trip creation and the public read models.
type TripService struct {
	tripRepo   repository.TripRepository
	cacheStore *redis.CacheStore
}

// NewTripService creates a new TripService. cacheStore is optional.
func NewTripService(tripRepo repository.TripRepository, cacheStore *redis.CacheStore) *TripService {
	return &TripService{
		tripRepo:   tripRepo,
		cacheStore: cacheStore,
	}
}

// CreateTripRequest contains the parameters for posting a trip.
type CreateTripRequest struct {
	DriverID    string
	Origin      string
	Destination string
	TotalSeats  int
	StartsAt    time.Time
}

// CreateTrip posts a new trip offering. The seat capacity is fixed at
// creation; only the booking lifecycle mutates the committed-seats counter
// afterwards.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Origin == "" || req.Destination == "" {
		return nil, ErrInvalidRoute
	}
	if req.TotalSeats < 1 {
		return nil, ErrInvalidSeats
	}
	if req.StartsAt.IsZero() || req.StartsAt.Before(time.Now()) {
		return nil, ErrInvalidDeparture
	}

	trip := &domain.Trip{
		ID:          uuid.New().String(),
		DriverID:    req.DriverID,
		Origin:      req.Origin,
		Destination: req.Destination,
		TotalSeats:  req.TotalSeats,
		SeatsTaken:  0,
		StartsAt:    req.StartsAt,
		CreatedAt:   time.Now(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateUpcomingTrips(ctx)
	}

	return trip, nil
}

// GetTrip retrieves a trip by ID, served from cache when possible.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetTrip(ctx, tripID)
		if err == nil && cached != nil {
			return cachedToTrip(cached), nil
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetTrip(ctx, tripToCached(trip))
	}

	return trip, nil
}

// ListUpcomingTrips retrieves the public listing of trips that have not yet
// departed. The listing is served from cache when possible; it is a read
// model, eventually consistent with the booking lifecycle's writes.
func (s *TripService) ListUpcomingTrips(ctx context.Context) ([]*domain.Trip, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetUpcomingTrips(ctx)
		if err == nil && cached != nil {
			return cachedToTrips(cached), nil
		}
	}

	trips, err := s.tripRepo.ListUpcoming(ctx, time.Now(), upcomingTripsLimit)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetUpcomingTrips(ctx, tripsToCached(trips))
	}

	return trips, nil
}

func tripToCached(t *domain.Trip) *redis.CachedTrip {
	return &redis.CachedTrip{
		ID:          t.ID,
		DriverID:    t.DriverID,
		Origin:      t.Origin,
		Destination: t.Destination,
		TotalSeats:  t.TotalSeats,
		SeatsTaken:  t.SeatsTaken,
		StartsAt:    t.StartsAt,
	}
}

func cachedToTrip(c *redis.CachedTrip) *domain.Trip {
	return &domain.Trip{
		ID:          c.ID,
		DriverID:    c.DriverID,
		Origin:      c.Origin,
		Destination: c.Destination,
		TotalSeats:  c.TotalSeats,
		SeatsTaken:  c.SeatsTaken,
		StartsAt:    c.StartsAt,
	}
}

func tripsToCached(trips []*domain.Trip) []*redis.CachedTrip {
	cached := make([]*redis.CachedTrip, len(trips))
	for i, t := range trips {
		cached[i] = tripToCached(t)
	}
	return cached
}

func cachedToTrips(cached []*redis.CachedTrip) []*domain.Trip {
	trips := make([]*domain.Trip, len(cached))
	for i, c := range cached {
		trips[i] = cachedToTrip(c)
	}
	return trips
}
