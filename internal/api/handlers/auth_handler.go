package handlers

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/zatekoja/saunabooking/internal/api/middleware"
	"github.com/zatekoja/saunabooking/internal/application/services"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

const (
	loginRateLimit  = 10
	loginRateWindow = 15 * time.Minute
)

// AuthService defines the account operations used by the handler
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*entities.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenResponse, error)
}

// AuthHandler handles registration, login and the current-user endpoint
type AuthHandler struct {
	service AuthService
	limiter *rateLimiter
	proxies trustedProxies
}

// NewAuthHandler creates a new auth handler. cache backs the login rate
// limit and may be nil. Forwarding headers are honoured only on requests
// arriving from one of the proxies networks.
func NewAuthHandler(service AuthService, cache providers.CacheProvider, proxies []*net.IPNet) *AuthHandler {
	return &AuthHandler{
		service: service,
		limiter: newRateLimiter(cache, loginRateLimit, loginRateWindow),
		proxies: proxies,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	FullName string        `json:"full_name"`
	Phone    string        `json:"phone,omitempty"`
	Role     entities.Role `json:"role"`
	IsAdmin  bool          `json:"is_admin"`
}

func newUserResponse(u *entities.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Role:     u.Role,
		IsAdmin:  u.IsAdmin(),
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, newUserResponse(user))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	allowed, retryAfter := h.limiter.allow(r.Context(), "login:rate:"+h.proxies.clientIP(r))
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		respondWithError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var in loginRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	token, err := h.service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, token)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("not authenticated"))
		return
	}

	respondWithJSON(w, http.StatusOK, newUserResponse(user))
}
