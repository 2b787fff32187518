package model

import "time"

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published on every booking state change. Owner contact
// details ride along so consumers never read the users collection.
type BookingEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Booking    Booking   `json:"booking"`
	OwnerEmail string    `json:"ownerEmail,omitempty"`
	OwnerName  string    `json:"ownerName,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
