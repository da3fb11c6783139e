package providers

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache, returning ErrCacheMiss when absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes values from cache
	Delete(ctx context.Context, keys ...string) error

	// DeleteMatching removes every key matching a glob pattern
	DeleteMatching(ctx context.Context, pattern string) error

	// Increment atomically adds one to a counter. The first increment starts
	// a window of windowSeconds after which the counter expires. It returns
	// the new count and the time left in the window.
	Increment(ctx context.Context, key string, windowSeconds int) (int64, time.Duration, error)
}
