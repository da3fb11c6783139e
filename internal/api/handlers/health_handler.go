package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
)

// Pinger checks that a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the API and its database are up
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Health check failed")
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
