package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/saunabooking/internal/api/middleware"
	"github.com/zatekoja/saunabooking/internal/application/services"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
)

// ReviewService defines the review operations used by the handler
type ReviewService interface {
	CreateReview(ctx context.Context, actor *entities.User, in services.CreateReviewInput) (*entities.Review, error)
	ListReviews(ctx context.Context, saunaID string) ([]*entities.ReviewView, error)
	Summary(ctx context.Context, saunaID string) (*entities.ReviewSummary, error)
	DeleteReview(ctx context.Context, actor *entities.User, id string) error
}

// ReviewHandler handles review requests
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// CreateReview handles POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var in services.CreateReviewInput
	if !decodeJSON(w, r, &in) {
		return
	}

	review, err := h.service.CreateReview(r.Context(), middleware.UserFromContext(r.Context()), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// ListReviews handles GET /api/v1/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context(), r.URL.Query().Get("sauna_id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}

// GetSummary handles GET /api/v1/reviews/summary
func (h *ReviewHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), r.URL.Query().Get("sauna_id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// DeleteReview handles DELETE /api/v1/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteReview(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
