package routes

import (
	"net/http"

	"github.com/zatekoja/saunabooking/internal/api/handlers"
	"github.com/zatekoja/saunabooking/internal/api/middleware"
	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	healthHandler  *handlers.HealthHandler
	authHandler    *handlers.AuthHandler
	saunaHandler   *handlers.SaunaHandler
	bookingHandler *handlers.BookingHandler
	reviewHandler  *handlers.ReviewHandler

	authenticator  middleware.Authenticator
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	saunaHandler *handlers.SaunaHandler,
	bookingHandler *handlers.BookingHandler,
	reviewHandler *handlers.ReviewHandler,
	authenticator middleware.Authenticator,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		healthHandler:  healthHandler,
		authHandler:    authHandler,
		saunaHandler:   saunaHandler,
		bookingHandler: bookingHandler,
		reviewHandler:  reviewHandler,
		authenticator:  authenticator,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Account endpoints
	r.mux.HandleFunc("POST /api/v1/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/v1/auth/login", r.authHandler.Login)
	r.mux.HandleFunc("GET /api/v1/auth/me", r.authHandler.Me)

	// Sauna catalog endpoints
	r.mux.HandleFunc("GET /api/v1/saunas", r.saunaHandler.ListSaunas)
	r.mux.HandleFunc("GET /api/v1/saunas/{id}", r.saunaHandler.GetSauna)
	r.mux.HandleFunc("POST /api/v1/saunas", r.saunaHandler.CreateSauna)
	r.mux.HandleFunc("PUT /api/v1/saunas/{id}", r.saunaHandler.UpdateSauna)
	r.mux.HandleFunc("POST /api/v1/saunas/{id}/images", r.saunaHandler.AddImage)
	r.mux.HandleFunc("DELETE /api/v1/saunas/{id}/images/{imageId}", r.saunaHandler.DeleteImage)
	r.mux.HandleFunc("PUT /api/v1/saunas/{id}/operating-hours", r.saunaHandler.SetOperatingHours)

	// Booking endpoints
	r.mux.HandleFunc("GET /api/v1/bookings/availability", r.bookingHandler.GetAvailability)
	r.mux.HandleFunc("GET /api/v1/bookings/conflicts", r.bookingHandler.CheckConflict)
	r.mux.HandleFunc("POST /api/v1/bookings", r.bookingHandler.CreateBooking)
	r.mux.HandleFunc("GET /api/v1/bookings/my", r.bookingHandler.ListMyBookings)
	r.mux.HandleFunc("GET /api/v1/bookings", r.bookingHandler.ListBookings)
	r.mux.HandleFunc("GET /api/v1/bookings/{id}", r.bookingHandler.GetBooking)
	r.mux.HandleFunc("PATCH /api/v1/bookings/{id}/cancel", r.bookingHandler.CancelBooking)
	r.mux.HandleFunc("PATCH /api/v1/bookings/{id}", r.bookingHandler.UpdateBooking)

	// Review endpoints
	r.mux.HandleFunc("POST /api/v1/reviews", r.reviewHandler.CreateReview)
	r.mux.HandleFunc("GET /api/v1/reviews", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("GET /api/v1/reviews/summary", r.reviewHandler.GetSummary)
	r.mux.HandleFunc("DELETE /api/v1/reviews/{id}", r.reviewHandler.DeleteReview)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.AuthMiddleware(r.authenticator)(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics, r.mux)(handler)

	// CORS wraps everything so preflight requests never reach the handlers
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
