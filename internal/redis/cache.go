package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	TripCacheTTL    = 30 * time.Second // Individual trips change on accept/cancel
	ListingCacheTTL = 10 * time.Second // Public listing must reflect seat counts quickly
)

// Key prefixes
const (
	tripCachePrefix  = "cache:trip:"
	upcomingTripsKey = "cache:trips:upcoming"
)

// CachedTrip represents a cached trip entity.
type CachedTrip struct {
	ID          string    `json:"id"`
	DriverID    string    `json:"driver_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	TotalSeats  int       `json:"total_seats"`
	SeatsTaken  int       `json:"seats_taken"`
	StartsAt    time.Time `json:"starts_at"`
}

// GetTrip retrieves a trip from cache. A nil result means cache miss.
func (s *CacheStore) GetTrip(ctx context.Context, tripID string) (*CachedTrip, error) {
	data, err := s.client.Get(ctx, tripCachePrefix+tripID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var trip CachedTrip
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// SetTrip stores a trip in cache.
func (s *CacheStore) SetTrip(ctx context.Context, trip *CachedTrip) error {
	data, err := json.Marshal(trip)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, tripCachePrefix+trip.ID, data, TripCacheTTL).Err()
}

// InvalidateTrip removes a trip from cache.
func (s *CacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	return s.client.Del(ctx, tripCachePrefix+tripID).Err()
}

// GetUpcomingTrips retrieves the cached public listing. A nil result means
// cache miss.
func (s *CacheStore) GetUpcomingTrips(ctx context.Context) ([]*CachedTrip, error) {
	data, err := s.client.Get(ctx, upcomingTripsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var trips []*CachedTrip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// SetUpcomingTrips stores the public listing in cache.
func (s *CacheStore) SetUpcomingTrips(ctx context.Context, trips []*CachedTrip) error {
	data, err := json.Marshal(trips)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, upcomingTripsKey, data, ListingCacheTTL).Err()
}

// InvalidateUpcomingTrips drops the cached public listing. Called after any
// seat-count change so the listing never shows stale availability for long.
func (s *CacheStore) InvalidateUpcomingTrips(ctx context.Context) error {
	return s.client.Del(ctx, upcomingTripsKey).Err()
}
