package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

func newMockDB(t *testing.T) (*TripRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTripRepository(db), mock
}

func TestTripRepository_CommitSeats_Wins(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec("UPDATE trips").
		WithArgs("trip-1", 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	committed, err := repo.CommitSeats(context.Background(), "trip-1", 2, 3)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_CommitSeats_LosesRace(t *testing.T) {
	repo, mock := newMockDB(t)

	// Zero affected rows means the expected counter value or the capacity
	// ceiling no longer held.
	mock.ExpectExec("UPDATE trips").
		WithArgs("trip-1", 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	committed, err := repo.CommitSeats(context.Background(), "trip-1", 2, 3)
	require.NoError(t, err)
	assert.False(t, committed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_ReleaseSeats(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec("UPDATE trips").
		WithArgs("trip-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ReleaseSeats(context.Background(), "trip-1", 2)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_ReleaseSeats_GuardFails(t *testing.T) {
	repo, mock := newMockDB(t)

	// Trip missing, or the release would drive the counter negative.
	mock.ExpectExec("UPDATE trips").
		WithArgs("trip-1", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReleaseSeats(context.Background(), "trip-1", 5)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM trips").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "driver_id", "origin", "destination", "total_seats", "seats_taken", "starts_at", "created_at",
		}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTripRepository_ListUpcoming(t *testing.T) {
	repo, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM trips").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "driver_id", "origin", "destination", "total_seats", "seats_taken", "starts_at", "created_at",
		}).AddRow("trip-1", "driver-1", "Campus", "Airport", 3, 1, now.Add(time.Hour), now))

	trips, err := repo.ListUpcoming(context.Background(), now, 50)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "trip-1", trips[0].ID)
	assert.Equal(t, 2, trips[0].SeatsAvailable())
}

func TestTripRepository_Create(t *testing.T) {
	repo, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectExec("INSERT INTO trips").
		WithArgs("trip-1", "driver-1", "Campus", "Airport", 3, 0, now.Add(time.Hour), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.Trip{
		ID:          "trip-1",
		DriverID:    "driver-1",
		Origin:      "Campus",
		Destination: "Airport",
		TotalSeats:  3,
		SeatsTaken:  0,
		StartsAt:    now.Add(time.Hour),
		CreatedAt:   now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
