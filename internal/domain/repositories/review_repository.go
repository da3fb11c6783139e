package repositories

import (
	"context"

	"github.com/zatekoja/saunabooking/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create creates a new review; a second review of one booking is rejected
	Create(ctx context.Context, review *entities.Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id string) (*entities.Review, error)

	// ExistsForBooking reports whether the booking already has a review
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)

	// ListBySauna retrieves reviews of a sauna, newest first
	ListBySauna(ctx context.Context, saunaID string) ([]*entities.ReviewView, error)

	// Summary aggregates the ratings of a sauna
	Summary(ctx context.Context, saunaID string) (*entities.ReviewSummary, error)

	// Delete deletes a review
	Delete(ctx context.Context, id string) error
}
