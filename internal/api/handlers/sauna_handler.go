package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/saunabooking/internal/api/middleware"
	"github.com/zatekoja/saunabooking/internal/application/services"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
)

// SaunaService defines the catalog operations used by the handler
type SaunaService interface {
	List(ctx context.Context, minPrice, maxPrice *float64) ([]*entities.Sauna, error)
	Get(ctx context.Context, id string) (*entities.Sauna, error)
	Create(ctx context.Context, actor *entities.User, in services.SaunaInput) (*entities.Sauna, error)
	Update(ctx context.Context, actor *entities.User, id string, in services.SaunaInput) (*entities.Sauna, error)
	AddImage(ctx context.Context, actor *entities.User, saunaID string, in services.ImageInput) (*entities.SaunaImage, error)
	DeleteImage(ctx context.Context, actor *entities.User, saunaID, imageID string) error
	SetOperatingHours(ctx context.Context, actor *entities.User, saunaID string, in []services.OperatingHoursInput) ([]entities.OperatingHours, error)
}

// SaunaHandler handles sauna catalog requests
type SaunaHandler struct {
	service SaunaService
}

// NewSaunaHandler creates a new sauna handler
func NewSaunaHandler(service SaunaService) *SaunaHandler {
	return &SaunaHandler{service: service}
}

// ListSaunas handles GET /api/v1/saunas
func (h *SaunaHandler) ListSaunas(w http.ResponseWriter, r *http.Request) {
	minPrice, err := optionalFloat(r, "min_price")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	maxPrice, err := optionalFloat(r, "max_price")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	saunas, err := h.service.List(r.Context(), minPrice, maxPrice)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, saunas)
}

// GetSauna handles GET /api/v1/saunas/{id}
func (h *SaunaHandler) GetSauna(w http.ResponseWriter, r *http.Request) {
	sauna, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sauna)
}

// CreateSauna handles POST /api/v1/saunas
func (h *SaunaHandler) CreateSauna(w http.ResponseWriter, r *http.Request) {
	var in services.SaunaInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sauna, err := h.service.Create(r.Context(), middleware.UserFromContext(r.Context()), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sauna)
}

// UpdateSauna handles PUT /api/v1/saunas/{id}
func (h *SaunaHandler) UpdateSauna(w http.ResponseWriter, r *http.Request) {
	var in services.SaunaInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sauna, err := h.service.Update(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sauna)
}

// AddImage handles POST /api/v1/saunas/{id}/images
func (h *SaunaHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var in services.ImageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	image, err := h.service.AddImage(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, image)
}

// DeleteImage handles DELETE /api/v1/saunas/{id}/images/{imageId}
func (h *SaunaHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteImage(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"), r.PathValue("imageId"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetOperatingHours handles PUT /api/v1/saunas/{id}/operating-hours
func (h *SaunaHandler) SetOperatingHours(w http.ResponseWriter, r *http.Request) {
	var in []services.OperatingHoursInput
	if !decodeJSON(w, r, &in) {
		return
	}

	hours, err := h.service.SetOperatingHours(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hours)
}
