package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/tollguard/fraudwatch/cache"
)

func newTestLimiter(t *testing.T, opts ...Option) (*miniredis.Miniredis, *Limiter) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := cache.NewRedis(client, zap.NewNop())
	return mr, New(store, zap.NewNop(), opts...)
}

func TestLimiterFixedWindow(t *testing.T) {
	mr, l := newTestLimiter(t, WithLimit(3))
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "10.0.0.1"))
	assert.True(t, l.Allow(ctx, "10.0.0.1"))
	assert.True(t, l.Allow(ctx, "10.0.0.1"))
	assert.False(t, l.Allow(ctx, "10.0.0.1"))

	// A full quota returns the instant the window lapses.
	mr.FastForward(DefaultWindow + time.Second)
	assert.True(t, l.Allow(ctx, "10.0.0.1"))
}

func TestLimiterRejectedAttemptsStillCount(t *testing.T) {
	mr, l := newTestLimiter(t, WithLimit(2))
	ctx := context.Background()

	l.Allow(ctx, "ip")
	l.Allow(ctx, "ip")
	assert.False(t, l.Allow(ctx, "ip"))
	assert.False(t, l.Allow(ctx, "ip"))

	// Four attempts recorded, not two: retrying while rejected cannot
	// reset the counter.
	val, err := mr.Get(cache.EntityKey(cache.RateLimit, "ip"))
	assert.NoError(t, err)
	assert.Equal(t, "4", val)
}

func TestLimiterIdentifiersIndependent(t *testing.T) {
	_, l := newTestLimiter(t, WithLimit(1))
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "10.0.0.1"))
	assert.False(t, l.Allow(ctx, "10.0.0.1"))
	assert.True(t, l.Allow(ctx, "10.0.0.2"))
}

func TestLimiterPerCallLimit(t *testing.T) {
	_, l := newTestLimiter(t)
	ctx := context.Background()

	assert.True(t, l.AllowN(ctx, "ip", 1))
	assert.False(t, l.AllowN(ctx, "ip", 1))
	// A higher per-call quota sees the same counter.
	assert.True(t, l.AllowN(ctx, "ip", 10))
}

func TestLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	store := cache.NewRedis(client, zap.NewNop(), cache.WithCommandTimeout(200*time.Millisecond))
	l := New(store, zap.NewNop(), WithLimit(1))

	// Backend down: availability wins over quota enforcement.
	assert.True(t, l.Allow(context.Background(), "ip"))
	assert.True(t, l.Allow(context.Background(), "ip"))
}

func TestLimiterCountEndpoint(t *testing.T) {
	_, l := newTestLimiter(t)
	ctx := context.Background()

	assert.Equal(t, int64(1), l.CountEndpoint(ctx, "/api/alerts"))
	assert.Equal(t, int64(2), l.CountEndpoint(ctx, "/api/alerts"))
	assert.Equal(t, int64(1), l.CountEndpoint(ctx, "/api/dashboard"))
}

func TestMiddleware(t *testing.T) {
	_, l := newTestLimiter(t, WithLimit(2))

	handler := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
		req.RemoteAddr = ip + ":51234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	// Another client keeps its own quota.
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestMiddlewareForwardedFor(t *testing.T) {
	_, l := newTestLimiter(t, WithLimit(1))

	handler := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(fwd string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("203.0.113.9, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.9, 10.0.0.2"))
	assert.Equal(t, http.StatusOK, do("203.0.113.10"))
}
