package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository. Its
// conditional writes are atomic under one mutex, so racing goroutines
// exercise the same win-or-lose semantics the SQL implementation has.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount       int32
	CommitSeatsCallCount  int32
	ReleaseSeatsCallCount int32

	// Error injection
	CreateError       error
	CommitSeatsError  error
	ReleaseSeatsError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.StartsAt.After(after) {
			copy := *t
			result = append(result, &copy)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// CommitSeats performs the conditional capacity increment. The expected
// counter value and the capacity ceiling are re-checked under the lock, so
// of any set of racing committers at most one succeeds.
func (m *MockTripRepository) CommitSeats(ctx context.Context, tripID string, seats, expectedTaken int) (bool, error) {
	atomic.AddInt32(&m.CommitSeatsCallCount, 1)
	if m.CommitSeatsError != nil {
		return false, m.CommitSeatsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[tripID]
	if !ok {
		return false, nil
	}
	if trip.SeatsTaken != expectedTaken || trip.SeatsTaken+seats > trip.TotalSeats {
		return false, nil
	}
	trip.SeatsTaken += seats
	return true, nil
}

func (m *MockTripRepository) ReleaseSeats(ctx context.Context, tripID string, seats int) error {
	atomic.AddInt32(&m.ReleaseSeatsCallCount, 1)
	if m.ReleaseSeatsError != nil {
		return m.ReleaseSeatsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[tripID]
	if !ok || trip.SeatsTaken < seats {
		return repository.ErrNotFound
	}
	trip.SeatsTaken -= seats
	return nil
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// SeatsTaken returns the current committed-seats counter for assertions.
func (m *MockTripRepository) SeatsTaken(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return -1
	}
	return trip.SeatsTaken
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	trips    *MockTripRepository

	// Counters for verification
	CreateCallCount           int32
	TransitionStatusCallCount int32

	// Error injection
	CreateError           error
	TransitionStatusError error

	// FailTransitions makes TransitionStatus report a lost race without
	// touching the booking, to drive the undo path in the lifecycle engine.
	FailTransitions int32
}

// NewMockBookingRepository creates a new mock booking repository. trips is
// used to resolve the driver for ListPendingByDriver.
func NewMockBookingRepository(trips *MockTripRepository) *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
		trips:    trips,
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

// TransitionStatus performs the conditional status write under the lock:
// only the caller whose expected status still matches wins.
func (m *MockBookingRepository) TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) (bool, error) {
	atomic.AddInt32(&m.TransitionStatusCallCount, 1)
	if m.TransitionStatusError != nil {
		return false, m.TransitionStatusError
	}
	if atomic.LoadInt32(&m.FailTransitions) != 0 {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	booking.StatusChangedAt = at
	return true, nil
}

func (m *MockBookingRepository) ListPendingByDriver(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.Status != domain.BookingStatusPending {
			continue
		}
		trip := m.trips.GetTrip(b.TripID)
		if trip == nil || trip.DriverID != driverID {
			continue
		}
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.PassengerID == passengerID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// ──────────────────────────────────────────────
// IN-MEMORY STORE
// ──────────────────────────────────────────────

// MemoryStore implements repository.Store over the mock repositories.
//
// Writes apply immediately rather than on commit. That is deliberate: the
// lifecycle engine's own compensation logic is responsible for undoing
// partial work when a conditional write loses, and these tests verify
// exactly that logic. Conditional writes remain atomic, so concurrent
// ExecTx calls race the same way concurrent SQL transactions do.
type MemoryStore struct {
	TripRepo    *MockTripRepository
	BookingRepo *MockBookingRepository

	// Counters for verification
	ExecTxCallCount int32

	// Error injection
	ExecTxError error
}

// NewMemoryStore creates a store over fresh mock repositories.
func NewMemoryStore() *MemoryStore {
	trips := NewMockTripRepository()
	return &MemoryStore{
		TripRepo:    trips,
		BookingRepo: NewMockBookingRepository(trips),
	}
}

func (s *MemoryStore) ExecTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	atomic.AddInt32(&s.ExecTxCallCount, 1)
	if s.ExecTxError != nil {
		return s.ExecTxError
	}
	return fn(repository.Repositories{
		Trips:    s.TripRepo,
		Bookings: s.BookingRepo,
	})
}

func (s *MemoryStore) Trips() repository.TripRepository {
	return s.TripRepo
}

func (s *MemoryStore) Bookings() repository.BookingRepository {
	return s.BookingRepo
}

// ──────────────────────────────────────────────
// MOCK EVENT PUBLISHER
// ──────────────────────────────────────────────

// MockEventPublisher records published booking events.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []redis.BookingEvent

	// Error injection
	PublishError error
}

// NewMockEventPublisher creates a new mock event publisher.
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) PublishBookingEvent(ctx context.Context, event redis.BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return m.PublishError
	}
	m.events = append(m.events, event)
	return nil
}

// Events returns a snapshot of the recorded events.
func (m *MockEventPublisher) Events() []redis.BookingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]redis.BookingEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Interface checks.
var (
	_ repository.TripRepository     = (*MockTripRepository)(nil)
	_ repository.BookingRepository  = (*MockBookingRepository)(nil)
	_ repository.Store              = (*MemoryStore)(nil)
	_ redis.EventPublisherInterface = (*MockEventPublisher)(nil)
)
