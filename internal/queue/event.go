package queue

import (
	"time"

	"wotro-backend/internal/domain"
)

const (
	ExchangeKind = "topic"

	RoutingBookingRequested = "booking.requested"
	RoutingBookingConfirmed = "booking.confirmed"
	RoutingBookingRejected  = "booking.rejected"

	bindingBookingAll = "booking.*"
)

// BookingEvent is the message body of every booking.* event.
type BookingEvent struct {
	Type       string         `json:"type"`
	Booking    domain.Booking `json:"booking"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewBookingEvent(routingKey string, b domain.Booking) BookingEvent {
	return BookingEvent{Type: routingKey, Booking: b, OccurredAt: time.Now().UTC()}
}
