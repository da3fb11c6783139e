package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/saunabooking/internal/adapters/cache"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
)

type flakyCache struct {
	err   error
	calls int
	data  map[string][]byte
}

func (c *flakyCache) Get(_ context.Context, key string) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	v, ok := c.data[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *flakyCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *flakyCache) Delete(_ context.Context, keys ...string) error {
	c.calls++
	return c.err
}

func (c *flakyCache) DeleteMatching(_ context.Context, _ string) error {
	c.calls++
	return c.err
}

func (c *flakyCache) Increment(_ context.Context, _ string, windowSeconds int) (int64, time.Duration, error) {
	c.calls++
	if c.err != nil {
		return 0, 0, c.err
	}
	return 1, time.Duration(windowSeconds) * time.Second, nil
}

func TestBreakerAdapter_PassesThrough(t *testing.T) {
	ctx := context.Background()
	next := &flakyCache{data: map[string][]byte{}}
	c := cache.NewBreakerAdapter(next, cache.DefaultBreakerSettings)

	require.NoError(t, c.Set(ctx, "sauna:1", []byte("x"), 60))
	got, err := c.Get(ctx, "sauna:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
	require.NoError(t, c.Delete(ctx, "sauna:1"))
	require.NoError(t, c.DeleteMatching(ctx, "availability:1:*"))

	n, ttl, err := c.Increment(ctx, "login:rate:192.0.2.1", 900)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 15*time.Minute, ttl)
}

func TestBreakerAdapter_MissesKeepCircuitClosed(t *testing.T) {
	ctx := context.Background()
	c := cache.NewBreakerAdapter(&flakyCache{data: map[string][]byte{}}, cache.BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 5; i++ {
		_, err := c.Get(ctx, "absent")
		assert.ErrorIs(t, err, providers.ErrCacheMiss)
	}
	assert.Equal(t, gobreaker.StateClosed, c.State())
}

func TestBreakerAdapter_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	next := &flakyCache{err: errors.New("connection refused"), data: map[string][]byte{}}
	c := cache.NewBreakerAdapter(next, cache.BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute})

	_, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "k", []byte("v"), 10))
	assert.Equal(t, gobreaker.StateOpen, c.State())

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, next.calls)
}
