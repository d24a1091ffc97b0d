package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// bookingEventsChannel is the pub/sub channel real-time consumers subscribe to.
const bookingEventsChannel = "bookings:events"

// BookingEvent is the domain event emitted after a committed status change.
type BookingEvent struct {
	BookingID   string    `json:"booking_id"`
	TripID      string    `json:"trip_id"`
	Status      string    `json:"status"`
	RecipientID string    `json:"recipient_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher publishes booking domain events over Redis pub/sub.
// Delivery is best-effort: there is no acknowledgement and no retry.
type EventPublisher struct {
	client *redis.Client
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(client *redis.Client) *EventPublisher {
	return &EventPublisher{client: client}
}

// PublishBookingEvent sends the event to the bookings channel.
func (p *EventPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, bookingEventsChannel, data).Err()
}
