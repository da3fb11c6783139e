package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/saunabooking/internal/domain/providers"
	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
	"golang.org/x/time/rate"
)

// rateLimiter counts attempts per key in fixed windows on the shared cache
// when one is configured. Without one, or while the cache is failing, it
// uses an in-process token bucket per key that refills the whole limit over
// one window.
type rateLimiter struct {
	cache  providers.CacheProvider
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	now     func() time.Time
}

func newRateLimiter(cache providers.CacheProvider, limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		cache:   cache,
		limit:   limit,
		window:  window,
		buckets: make(map[string]*rate.Limiter),
		now:     time.Now,
	}
}

// allow records an attempt and reports whether it is within the limit,
// with the time until the window resets when it is not
func (l *rateLimiter) allow(ctx context.Context, key string) (bool, time.Duration) {
	if l.cache == nil {
		return l.allowLocal(key)
	}

	count, ttl, err := l.cache.Increment(ctx, key, int(l.window/time.Second))
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Shared rate limit unavailable, using local limit")
		return l.allowLocal(key)
	}
	if count > int64(l.limit) {
		return false, ttl
	}
	return true, 0
}

func (l *rateLimiter) allowLocal(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(rate.Every(l.window/time.Duration(l.limit)), l.limit)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	reservation := bucket.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// trustedProxies lists the networks whose forwarding headers are believed.
// The zero value trusts nobody and keys on the socket peer.
type trustedProxies []*net.IPNet

func (p trustedProxies) trusts(ip net.IP) bool {
	for _, n := range p {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP returns the socket peer unless it is a trusted proxy. Behind one,
// X-Forwarded-For is read right to left and the first hop that is not itself
// a trusted proxy is the client; X-Real-IP is the fallback.
func (p trustedProxies) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	peerIP := net.ParseIP(peer)
	if peerIP == nil || !p.trusts(peerIP) {
		return peer
	}

	if forwarded := r.Header.Values("X-Forwarded-For"); len(forwarded) > 0 {
		hops := strings.Split(strings.Join(forwarded, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			ip := net.ParseIP(hop)
			if ip == nil {
				break
			}
			if !p.trusts(ip) {
				return ip.String()
			}
		}
	}
	if realIP := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); realIP != nil {
		return realIP.String()
	}
	return peer
}
