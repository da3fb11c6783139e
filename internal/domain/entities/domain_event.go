package entities

import (
	"time"

	"github.com/google/uuid"
)

// DomainEventType represents the type of a published change
type DomainEventType string

const (
	EventTypeBookingCreated   DomainEventType = "booking.created"
	EventTypeBookingCancelled DomainEventType = "booking.cancelled"
	EventTypeBookingUpdated   DomainEventType = "booking.updated"
	EventTypeSaunaUpdated     DomainEventType = "sauna.updated"
)

// DomainEvent announces a change to bookings or the sauna catalog
type DomainEvent struct {
	ID          string          `json:"id"`
	EventType   DomainEventType `json:"event_type"`
	SaunaID     string          `json:"sauna_id"`
	BookingID   string          `json:"booking_id,omitempty"`
	BookingDate string          `json:"booking_date,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewBookingEvent creates an event describing a booking change
func NewBookingEvent(eventType DomainEventType, booking *Booking) *DomainEvent {
	return &DomainEvent{
		ID:          uuid.New().String(),
		EventType:   eventType,
		SaunaID:     booking.SaunaID,
		BookingID:   booking.ID,
		BookingDate: booking.BookingDate,
		Timestamp:   time.Now().UTC(),
	}
}

// NewSaunaEvent creates an event describing a catalog change
func NewSaunaEvent(saunaID string) *DomainEvent {
	return &DomainEvent{
		ID:        uuid.New().String(),
		EventType: EventTypeSaunaUpdated,
		SaunaID:   saunaID,
		Timestamp: time.Now().UTC(),
	}
}
