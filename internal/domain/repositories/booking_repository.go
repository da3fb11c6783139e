package repositories

import (
	"context"

	"github.com/zatekoja/saunabooking/internal/domain/entities"
)

// ReserveGuard inspects the non-cancelled bookings of the day inside the
// reserving transaction. A non-nil error aborts the insert.
type ReserveGuard func(existing []*entities.Booking) error

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// ListByDay retrieves the non-cancelled bookings of a sauna on one date
	ListByDay(ctx context.Context, saunaID, date string) ([]*entities.Booking, error)

	// Reserve serializes writers for the sauna and date, runs guard against
	// the day's bookings and inserts the booking if guard allows it
	Reserve(ctx context.Context, booking *entities.Booking, guard ReserveGuard) error

	// GetByID retrieves a booking by ID
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// GetView retrieves a booking with its sauna name and review flag
	GetView(ctx context.Context, id string) (*entities.BookingView, error)

	// Cancel marks a booking cancelled unless it already is; a booking that
	// is already cancelled yields an InvalidState error
	Cancel(ctx context.Context, id string) error

	// Update writes the mutable fields of a booking
	Update(ctx context.Context, booking *entities.Booking) error

	// List retrieves booking views matching the filter, newest date first
	List(ctx context.Context, filter BookingFilter) ([]*entities.BookingView, error)
}

// BookingFilter defines filters for listing bookings
type BookingFilter struct {
	UserID  string
	SaunaID string
	Date    string
	Status  *entities.BookingStatus
}
