package entities

import (
	"fmt"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// ParseBookingStatus converts a raw status string, rejecting unknown values
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

// Valid reports whether s is one of the known statuses
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Reviewable reports whether a booking in this status may receive a review
func (s BookingStatus) Reviewable() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCompleted
}

// Booking represents a reservation of a sauna for an interval of one day
type Booking struct {
	ID            string        `json:"id" db:"id"`
	SaunaID       string        `json:"sauna_id" db:"sauna_id"`
	UserID        *string       `json:"user_id,omitempty" db:"user_id"`
	BookingDate   string        `json:"booking_date" db:"booking_date"`
	StartTime     string        `json:"start_time" db:"start_time"`
	EndTime       string        `json:"end_time" db:"end_time"`
	GuestCount    int           `json:"guest_count" db:"guest_count"`
	TotalPrice    float64       `json:"total_price" db:"total_price"`
	CustomerName  string        `json:"customer_name" db:"customer_name"`
	CustomerPhone string        `json:"customer_phone" db:"customer_phone"`
	CustomerEmail string        `json:"customer_email" db:"customer_email"`
	Notes         string        `json:"notes,omitempty" db:"notes"`
	Status        BookingStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// IsOwnedBy reports whether the booking was made by the given account
func (b *Booking) IsOwnedBy(userID string) bool {
	return b.UserID != nil && userID != "" && *b.UserID == userID
}

// BookingView is a booking enriched for display
type BookingView struct {
	Booking
	SaunaName string `json:"sauna_name,omitempty"`
	HasReview bool   `json:"has_review"`
}

// TimeSlot is one entry of the availability grid
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
