package providers

import "time"

// TokenClaims is what a verified bearer token asserts
type TokenClaims struct {
	UserID    string
	ExpiresAt time.Time
}

// TokenProvider issues and verifies bearer tokens
type TokenProvider interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
	Verify(token string) (*TokenClaims, error)
}

// PasswordHasher hashes and checks account passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
