package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

// ReviewService handles reviews tied to completed or confirmed bookings
type ReviewService struct {
	reviews  repositories.ReviewRepository
	bookings repositories.BookingRepository
	now      func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(reviews repositories.ReviewRepository, bookings repositories.BookingRepository) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		bookings: bookings,
		now:      time.Now,
	}
}

// CreateReviewInput is a review as submitted by a customer
type CreateReviewInput struct {
	SaunaID   string `json:"sauna_id"`
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// CreateReview records the actor's review of one of their bookings
func (s *ReviewService) CreateReview(ctx context.Context, actor *entities.User, in CreateReviewInput) (*entities.Review, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	booking, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsOwnedBy(actor.ID) {
		return nil, apperrors.NewForbiddenError("you can only review your own bookings")
	}
	if booking.SaunaID != in.SaunaID {
		return nil, apperrors.NewValidationError("booking does not belong to this sauna")
	}
	if !booking.Status.Reviewable() {
		return nil, apperrors.NewInvalidStateError("only confirmed or completed bookings can be reviewed")
	}

	exists, err := s.reviews.ExistsForBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewDuplicateReviewError("this booking has already been reviewed")
	}

	now := s.now().UTC()
	review := &entities.Review{
		ID:        uuid.New().String(),
		SaunaID:   booking.SaunaID,
		UserID:    actor.ID,
		BookingID: booking.ID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("review_id", review.ID).
		Str("booking_id", booking.ID).
		Int("rating", review.Rating).
		Msg("Review created")
	return review, nil
}

// ListReviews returns a sauna's reviews, newest first
func (s *ReviewService) ListReviews(ctx context.Context, saunaID string) ([]*entities.ReviewView, error) {
	if saunaID == "" {
		return nil, apperrors.NewValidationError("sauna_id is required")
	}
	return s.reviews.ListBySauna(ctx, saunaID)
}

// Summary returns a sauna's rating aggregate
func (s *ReviewService) Summary(ctx context.Context, saunaID string) (*entities.ReviewSummary, error) {
	if saunaID == "" {
		return nil, apperrors.NewValidationError("sauna_id is required")
	}
	return s.reviews.Summary(ctx, saunaID)
}

// DeleteReview removes one of the actor's reviews
func (s *ReviewService) DeleteReview(ctx context.Context, actor *entities.User, id string) error {
	if err := requireUser(actor); err != nil {
		return err
	}

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != actor.ID {
		return apperrors.NewForbiddenError("not authorized to delete this review")
	}

	return s.reviews.Delete(ctx, id)
}
