package domain

import "time"

// User represents a registered user. The same user may post trips as a
// driver and request seats as a passenger.
type User struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
