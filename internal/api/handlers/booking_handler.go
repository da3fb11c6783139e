package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/saunabooking/internal/api/middleware"
	"github.com/zatekoja/saunabooking/internal/application/services"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

// BookingService defines the booking operations used by the handler
type BookingService interface {
	GetAvailability(ctx context.Context, saunaID, date string) ([]entities.TimeSlot, error)
	CheckConflict(ctx context.Context, saunaID, date, start, end, excludeID string) (*entities.Booking, error)
	CreateBooking(ctx context.Context, actor *entities.User, in services.CreateBookingInput) (*entities.Booking, error)
	GetBooking(ctx context.Context, id string) (*entities.BookingView, error)
	ListMyBookings(ctx context.Context, actor *entities.User, status string) ([]*entities.BookingView, error)
	ListBookings(ctx context.Context, actor *entities.User, in services.ListBookingsInput) ([]*entities.BookingView, error)
	CancelBooking(ctx context.Context, actor *entities.User, id string) (*entities.Booking, error)
	UpdateBooking(ctx context.Context, actor *entities.User, id string, in services.UpdateBookingInput) (*entities.Booking, error)
}

// BookingHandler handles availability and booking requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type conflictResponse struct {
	Conflict bool              `json:"conflict"`
	Booking  *entities.Booking `json:"booking,omitempty"`
}

// GetAvailability handles GET /api/v1/bookings/availability
func (h *BookingHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	saunaID, date := q.Get("sauna_id"), q.Get("date")
	if saunaID == "" || date == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("sauna_id and date are required"))
		return
	}

	slots, err := h.service.GetAvailability(r.Context(), saunaID, date)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, slots)
}

// CheckConflict handles GET /api/v1/bookings/conflicts
func (h *BookingHandler) CheckConflict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	saunaID, date := q.Get("sauna_id"), q.Get("date")
	start, end := q.Get("start_time"), q.Get("end_time")
	if saunaID == "" || date == "" || start == "" || end == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("sauna_id, date, start_time and end_time are required"))
		return
	}

	conflict, err := h.service.CheckConflict(r.Context(), saunaID, date, start, end, q.Get("exclude_id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, conflictResponse{Conflict: conflict != nil, Booking: conflict})
}

// CreateBooking handles POST /api/v1/bookings. A bearer token is optional;
// anonymous bookings are stored without an owner.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in services.CreateBookingInput
	if !decodeJSON(w, r, &in) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), middleware.UserFromContext(r.Context()), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, booking)
}

// ListMyBookings handles GET /api/v1/bookings/my
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListMyBookings(r.Context(), middleware.UserFromContext(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// ListBookings handles GET /api/v1/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookings, err := h.service.ListBookings(r.Context(), middleware.UserFromContext(r.Context()), services.ListBookingsInput{
		Date:    q.Get("date"),
		SaunaID: q.Get("sauna_id"),
		Status:  q.Get("status"),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

// GetBooking handles GET /api/v1/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// CancelBooking handles PATCH /api/v1/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.CancelBooking(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// UpdateBooking handles PATCH /api/v1/bookings/{id}
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateBookingInput
	if !decodeJSON(w, r, &in) {
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}
