package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/saunabooking/internal/api/handlers"
	"github.com/zatekoja/saunabooking/internal/api/routes"
	"github.com/zatekoja/saunabooking/internal/application/services"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

// stubBackend answers every service call with an empty result and records
// the caller seen by the booking and review endpoints.
type stubBackend struct {
	lastActor *entities.User
}

func (s *stubBackend) Ping(context.Context) error { return nil }

func (s *stubBackend) Authenticate(_ context.Context, token string) (*entities.User, error) {
	if token == "good" {
		return &entities.User{ID: "user-1", Role: entities.RoleCustomer}, nil
	}
	return nil, apperrors.NewUnauthorizedError("invalid token")
}

func (s *stubBackend) Register(context.Context, services.RegisterInput) (*entities.User, error) {
	return &entities.User{}, nil
}

func (s *stubBackend) Login(context.Context, string, string) (*services.TokenResponse, error) {
	return &services.TokenResponse{}, nil
}

func (s *stubBackend) List(context.Context, *float64, *float64) ([]*entities.Sauna, error) {
	return []*entities.Sauna{}, nil
}

func (s *stubBackend) Get(_ context.Context, id string) (*entities.Sauna, error) {
	return &entities.Sauna{ID: id}, nil
}

func (s *stubBackend) Create(context.Context, *entities.User, services.SaunaInput) (*entities.Sauna, error) {
	return &entities.Sauna{}, nil
}

func (s *stubBackend) Update(context.Context, *entities.User, string, services.SaunaInput) (*entities.Sauna, error) {
	return &entities.Sauna{}, nil
}

func (s *stubBackend) AddImage(context.Context, *entities.User, string, services.ImageInput) (*entities.SaunaImage, error) {
	return &entities.SaunaImage{}, nil
}

func (s *stubBackend) DeleteImage(context.Context, *entities.User, string, string) error {
	return nil
}

func (s *stubBackend) SetOperatingHours(context.Context, *entities.User, string, []services.OperatingHoursInput) ([]entities.OperatingHours, error) {
	return nil, nil
}

func (s *stubBackend) GetAvailability(context.Context, string, string) ([]entities.TimeSlot, error) {
	return []entities.TimeSlot{}, nil
}

func (s *stubBackend) CheckConflict(context.Context, string, string, string, string, string) (*entities.Booking, error) {
	return nil, nil
}

func (s *stubBackend) CreateBooking(_ context.Context, actor *entities.User, _ services.CreateBookingInput) (*entities.Booking, error) {
	s.lastActor = actor
	return &entities.Booking{ID: "b1"}, nil
}

func (s *stubBackend) GetBooking(_ context.Context, id string) (*entities.BookingView, error) {
	return &entities.BookingView{Booking: entities.Booking{ID: id}}, nil
}

func (s *stubBackend) ListMyBookings(_ context.Context, actor *entities.User, _ string) ([]*entities.BookingView, error) {
	s.lastActor = actor
	return []*entities.BookingView{}, nil
}

func (s *stubBackend) ListBookings(context.Context, *entities.User, services.ListBookingsInput) ([]*entities.BookingView, error) {
	return []*entities.BookingView{}, nil
}

func (s *stubBackend) CancelBooking(_ context.Context, _ *entities.User, id string) (*entities.Booking, error) {
	return &entities.Booking{ID: id, Status: entities.BookingStatusCancelled}, nil
}

func (s *stubBackend) UpdateBooking(_ context.Context, _ *entities.User, id string, _ services.UpdateBookingInput) (*entities.Booking, error) {
	return &entities.Booking{ID: id}, nil
}

func (s *stubBackend) CreateReview(context.Context, *entities.User, services.CreateReviewInput) (*entities.Review, error) {
	return &entities.Review{}, nil
}

func (s *stubBackend) ListReviews(context.Context, string) ([]*entities.ReviewView, error) {
	return []*entities.ReviewView{}, nil
}

func (s *stubBackend) Summary(context.Context, string) (*entities.ReviewSummary, error) {
	return &entities.ReviewSummary{}, nil
}

func (s *stubBackend) DeleteReview(context.Context, *entities.User, string) error {
	return nil
}

func newTestRouter(backend *stubBackend) http.Handler {
	return routes.NewRouter(
		handlers.NewHealthHandler(backend),
		handlers.NewAuthHandler(backend, nil, nil),
		handlers.NewSaunaHandler(backend),
		handlers.NewBookingHandler(backend),
		handlers.NewReviewHandler(backend),
		backend,
		[]string{"http://localhost:5173"},
		nil,
	).SetupRoutes()
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/saunas", "", http.StatusOK},
		{http.MethodGet, "/api/v1/saunas/sauna-1", "", http.StatusOK},
		{http.MethodPut, "/api/v1/saunas/sauna-1/operating-hours", "[]", http.StatusOK},
		{http.MethodDelete, "/api/v1/saunas/sauna-1/images/img-1", "", http.StatusNoContent},
		{http.MethodGet, "/api/v1/bookings/availability?sauna_id=s&date=2024-06-01", "", http.StatusOK},
		{http.MethodGet, "/api/v1/bookings/conflicts?sauna_id=s&date=2024-06-01&start_time=10:00&end_time=11:00", "", http.StatusOK},
		{http.MethodGet, "/api/v1/bookings/my", "", http.StatusOK},
		{http.MethodGet, "/api/v1/bookings/b1", "", http.StatusOK},
		{http.MethodPatch, "/api/v1/bookings/b1/cancel", "", http.StatusOK},
		{http.MethodPatch, "/api/v1/bookings/b1", `{"notes":"x"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/reviews/summary?sauna_id=s", "", http.StatusOK},
		{http.MethodDelete, "/api/v1/reviews/r1", "", http.StatusNoContent},
		{http.MethodGet, "/api/v1/nothing-here", "", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/saunas/sauna-1", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRouter_AttachesCaller(t *testing.T) {
	backend := &stubBackend{}
	router := newTestRouter(backend)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/my", nil)
	req.Header.Set("Authorization", "Bearer good")
	router.ServeHTTP(httptest.NewRecorder(), req)
	if assert.NotNil(t, backend.lastActor) {
		assert.Equal(t, "user-1", backend.lastActor.ID)
	}

	// a bad token on an optional route books anonymously
	body := `{"sauna_id":"s","booking_date":"2024-06-01","start_time":"10:00","end_time":"11:00","guest_count":1}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, backend.lastActor)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bookings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/bookings", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
