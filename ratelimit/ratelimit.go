// Package ratelimit enforces a fixed-window request quota per client
// identifier on top of the shared cache store. The window is non-sliding:
// the counter resets the instant its TTL lapses, giving a full-quota reset
// exactly on window boundaries.
package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tollguard/fraudwatch/cache"
)

// Defaults applied when the caller does not override them.
const (
	DefaultLimit  = 1000
	DefaultWindow = cache.TierRateLimitWindow
)

// Limiter is a fixed-window rate limiter. The counter lives in the shared
// store, so the quota spans every process pointing at the same backend.
type Limiter struct {
	store  cache.Store
	log    *zap.Logger
	limit  int64
	window time.Duration
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLimit sets the per-window quota. Defaults to DefaultLimit.
func WithLimit(n int64) Option {
	return func(l *Limiter) { l.limit = n }
}

// WithWindow sets the window length. Defaults to the rate-limit tier.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) { l.window = d }
}

// New returns a Limiter on the given store.
func New(store cache.Store, log *zap.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		log:    log,
		limit:  DefaultLimit,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records one attempt for the identifier and reports whether it fits
// the configured quota.
func (l *Limiter) Allow(ctx context.Context, identifier string) bool {
	return l.AllowN(ctx, identifier, l.limit)
}

// AllowN records one attempt against an explicit per-call quota.
//
// The counter is incremented first and the returned count compared to the
// limit, so two concurrent attempts can never both slip under the quota.
// Rejected attempts still count: retrying inside the same window cannot
// reset or stretch it. On backend failure the limiter fails open — the
// request is allowed and the degraded state logged — trading strict quota
// enforcement for availability.
func (l *Limiter) AllowN(ctx context.Context, identifier string, limit int64) bool {
	key := cache.EntityKey(cache.RateLimit, identifier)
	n, err := l.store.IncrWindow(ctx, key, l.window)
	if err != nil {
		l.log.Warn("rate limiter degraded, allowing request",
			zap.String("identifier", identifier), zap.Error(err))
		return true
	}
	return n <= limit
}

// CountEndpoint records one call against the per-endpoint counter and
// returns the count so far in the current window. Used for per-endpoint
// traffic accounting, not enforcement.
func (l *Limiter) CountEndpoint(ctx context.Context, endpoint string) int64 {
	key := cache.EntityKey(cache.EndpointCounter, endpoint)
	n, err := l.store.IncrWindow(ctx, key, l.window)
	if err != nil {
		l.log.Warn("endpoint counter degraded", zap.String("endpoint", endpoint), zap.Error(err))
		return 0
	}
	return n
}
