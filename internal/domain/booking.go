package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusAccepted  BookingStatus = "ACCEPTED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsTerminal reports whether the status admits no further transitions,
// except for the explicit ACCEPTED -> CANCELLED cancellation path.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusAccepted || s == BookingStatusRejected || s == BookingStatusCancelled
}

// Booking represents a passenger's request for seats on a trip.
//
// A booking starts PENDING and moves exactly once into a terminal state via
// accept, reject, or cancel. Bookings are never deleted; they are retained
// for audit.
type Booking struct {
	ID              string
	TripID          string
	PassengerID     string
	SeatsRequested  int
	Status          BookingStatus
	CreatedAt       time.Time
	StatusChangedAt time.Time
}
