package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
)

// BreakerSettings tunes when the cache circuit opens and how long it stays open
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// DefaultBreakerSettings opens after five straight failures for thirty seconds
var DefaultBreakerSettings = BreakerSettings{
	ConsecutiveFailures: 5,
	OpenTimeout:         30 * time.Second,
}

// BreakerAdapter guards a CacheProvider with a circuit breaker. While the
// circuit is open every call fails fast; callers already treat cache errors
// as misses and go to the database.
type BreakerAdapter struct {
	next    providers.CacheProvider
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerAdapter wraps next with a circuit breaker
func NewBreakerAdapter(next providers.CacheProvider, settings BreakerSettings) *BreakerAdapter {
	return &BreakerAdapter{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "cache",
			MaxRequests: 1,
			Timeout:     settings.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
			},
			// a miss is a healthy answer
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, providers.ErrCacheMiss)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Cache circuit state changed")
			},
		}),
	}
}

// Get retrieves a value from cache
func (a *BreakerAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.breaker.Execute(func() (interface{}, error) {
		return a.next.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Set stores a value in cache with expiration
func (a *BreakerAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, a.next.Set(ctx, key, value, expirationSeconds)
	})
	return err
}

// Delete removes values from cache
func (a *BreakerAdapter) Delete(ctx context.Context, keys ...string) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, a.next.Delete(ctx, keys...)
	})
	return err
}

// DeleteMatching removes every key matching pattern
func (a *BreakerAdapter) DeleteMatching(ctx context.Context, pattern string) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, a.next.DeleteMatching(ctx, pattern)
	})
	return err
}

// Increment counts one hit in a fixed window
func (a *BreakerAdapter) Increment(ctx context.Context, key string, windowSeconds int) (int64, time.Duration, error) {
	type counted struct {
		n   int64
		ttl time.Duration
	}
	result, err := a.breaker.Execute(func() (interface{}, error) {
		n, ttl, err := a.next.Increment(ctx, key, windowSeconds)
		return counted{n, ttl}, err
	})
	if err != nil {
		return 0, 0, err
	}
	c := result.(counted)
	return c.n, c.ttl, nil
}

// State reports the circuit state, for health output and tests
func (a *BreakerAdapter) State() gobreaker.State {
	return a.breaker.State()
}
