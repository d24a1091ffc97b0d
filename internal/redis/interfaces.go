package redis

import "context"

// EventPublisherInterface defines the interface for publishing booking events.
type EventPublisherInterface interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
}

// Ensure concrete types implement interfaces.
var _ EventPublisherInterface = (*EventPublisher)(nil)
