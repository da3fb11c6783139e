package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

// AuthService registers accounts and resolves bearer tokens to users
type AuthService struct {
	users  repositories.UserRepository
	tokens providers.TokenProvider
	hasher providers.PasswordHasher
	now    func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, tokens providers.TokenProvider, hasher providers.PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		now:    time.Now,
	}
}

// RegisterInput is a new customer account
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
}

// TokenResponse is the result of a successful login
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Register creates a customer account
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entities.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	email := in.Email

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("email already registered")
	} else if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         entities.RoleCustomer,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().Str("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Login exchanges credentials for a bearer token
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewUnauthorizedError("incorrect email or password")
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, apperrors.NewUnauthorizedError("incorrect email or password")
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return &TokenResponse{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a bearer token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("could not validate credentials")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewUnauthorizedError("could not validate credentials")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
