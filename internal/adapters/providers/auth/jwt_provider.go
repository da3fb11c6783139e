package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
	"github.com/zatekoja/saunabooking/pkg/config"
)

// JWTProvider issues HS256 bearer tokens whose subject is the user ID
type JWTProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTProvider creates a token provider from the auth settings
func NewJWTProvider(cfg *config.AuthConfig) *JWTProvider {
	return &JWTProvider{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.TokenIssuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

var _ providers.TokenProvider = (*JWTProvider)(nil)

// Issue signs a token for the user
func (p *JWTProvider) Issue(userID string) (string, time.Time, error) {
	now := p.now()
	expiresAt := now.Add(p.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    p.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, issuer and expiry
func (p *JWTProvider) Verify(token string) (*providers.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return p.secret, nil
		},
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token: missing subject")
	}

	return &providers.TokenClaims{
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
