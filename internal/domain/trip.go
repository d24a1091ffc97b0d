package domain

import "time"

// Trip represents a driver-posted ride offering with a fixed seat capacity.
//
// SeatsTaken counts seats held by accepted bookings. It is mutated only
// through the conditional commit/release primitives of the trip repository,
// never by a direct write, and always satisfies 0 <= SeatsTaken <= TotalSeats.
type Trip struct {
	ID          string
	DriverID    string
	Origin      string
	Destination string
	TotalSeats  int
	SeatsTaken  int
	StartsAt    time.Time
	CreatedAt   time.Time
}

// SeatsAvailable returns the number of seats not yet committed.
func (t *Trip) SeatsAvailable() int {
	return t.TotalSeats - t.SeatsTaken
}
