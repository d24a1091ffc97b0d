package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"carpool/internal/domain"
	"carpool/internal/redis"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingRequested NotificationType = "BOOKING_REQUESTED"
	NotificationBookingAccepted  NotificationType = "BOOKING_ACCEPTED"
	NotificationBookingRejected  NotificationType = "BOOKING_REJECTED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	BookingID   string
	TripID      string
	CreatedAt   time.Time
}

// NotificationService relays booking lifecycle events to interested parties.
// Delivery is best-effort: it is only invoked after the owning transaction
// has committed, and a failed delivery is never surfaced to the caller.
type NotificationService struct {
	publisher redis.EventPublisherInterface
}

// NewNotificationService creates a new NotificationService. publisher is
// optional; without it events are only logged.
func NewNotificationService(publisher redis.EventPublisherInterface) *NotificationService {
	return &NotificationService{publisher: publisher}
}

// NotifyBookingRequested notifies the trip's driver about a new seat request.
func (s *NotificationService) NotifyBookingRequested(ctx context.Context, booking *domain.Booking, driverID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingRequested,
		RecipientID: driverID,
		Title:       "New Seat Request",
		Message:     fmt.Sprintf("A passenger requested %d seat(s) on your trip", booking.SeatsRequested),
		BookingID:   booking.ID,
		TripID:      booking.TripID,
		CreatedAt:   time.Now(),
	})
}

// NotifyBookingAccepted notifies the passenger that their request was accepted.
func (s *NotificationService) NotifyBookingAccepted(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingAccepted,
		RecipientID: booking.PassengerID,
		Title:       "Request Accepted",
		Message:     fmt.Sprintf("Your request for %d seat(s) was accepted", booking.SeatsRequested),
		BookingID:   booking.ID,
		TripID:      booking.TripID,
		CreatedAt:   time.Now(),
	})
}

// NotifyBookingRejected notifies the passenger that their request was rejected.
func (s *NotificationService) NotifyBookingRejected(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingRejected,
		RecipientID: booking.PassengerID,
		Title:       "Request Rejected",
		Message:     "Your seat request was rejected by the driver",
		BookingID:   booking.ID,
		TripID:      booking.TripID,
		CreatedAt:   time.Now(),
	})
}

// NotifyBookingCancelled notifies the trip's driver that a booking was cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCancelled,
		RecipientID: "", // Resolved by subscribers from the trip.
		Title:       "Booking Cancelled",
		Message:     fmt.Sprintf("A booking for %d seat(s) was cancelled", booking.SeatsRequested),
		BookingID:   booking.ID,
		TripID:      booking.TripID,
		CreatedAt:   time.Now(),
	})
}

// send logs the notification and, when a publisher is configured, relays it
// on the pub/sub side-channel in the background so the caller never blocks.
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Booking=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.BookingID, notification.Message)

	if s.publisher == nil {
		return nil
	}

	event := redis.BookingEvent{
		BookingID:   notification.BookingID,
		TripID:      notification.TripID,
		Status:      string(notification.Type),
		RecipientID: notification.RecipientID,
		OccurredAt:  notification.CreatedAt,
	}

	go func() {
		publishCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.publisher.PublishBookingEvent(publishCtx, event); err != nil {
			log.Printf("[NOTIFICATION] publish failed: %v", err)
		}
	}()

	return nil
}
