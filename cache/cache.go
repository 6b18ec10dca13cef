package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMissingID is returned by facade operations on per-entity categories
// when the caller did not supply an entity id. The check runs before any
// backend call.
var ErrMissingID = errors.New("cache: entity id is required for this category")

// DefaultCommandTimeout bounds every individual backend command so a
// stalled redis degrades to the fail-open path instead of hanging callers.
const DefaultCommandTimeout = 5 * time.Second

// DefaultPingTimeout bounds the connectivity probe. Ping runs off the
// request hot path, so it gets a shorter budget than data commands.
const DefaultPingTimeout = 2 * time.Second

// Store abstracts the shared key-value backend. The store is the single
// source of truth for all cross-request state: no component keeps a private
// copy of cached data between calls.
type Store interface {
	// Get returns the value stored under key. Reads fail open: on backend
	// timeout or connectivity failure it reports absent rather than
	// returning an error, so a degraded backend looks like a cache miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores val under key with the given TTL as one atomic operation;
	// a reader never observes the value without its expiry active.
	// A ttl <= 0 falls back to the store's configured default.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error

	// Delete removes the given keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)

	// Keys returns the keys matching a glob pattern. The listing is a
	// best-effort snapshot: it is not atomic with concurrent writes, so a
	// bulk clear built on it may miss keys created mid-enumeration.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// IncrWindow atomically increments the counter at key and, only when
	// this increment created the key, starts the expiry window. The
	// increment and the conditional expiry execute as a single unit on the
	// backend, so a counter can never be observed incremented but unexpiring.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)

	// Ping probes backend connectivity with its own short timeout.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

type config struct {
	commandTimeout time.Duration
	pingTimeout    time.Duration
	defaultTTL     time.Duration
}

// Option configures a Store implementation.
type Option func(*config)

func defaultConfig() config {
	return config{
		commandTimeout: DefaultCommandTimeout,
		pingTimeout:    DefaultPingTimeout,
		defaultTTL:     TierDashboard,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithCommandTimeout sets the per-command timeout for backend I/O.
// Defaults to DefaultCommandTimeout.
func WithCommandTimeout(d time.Duration) Option {
	return func(c *config) { c.commandTimeout = d }
}

// WithPingTimeout sets the timeout for connectivity probes.
// Defaults to DefaultPingTimeout.
func WithPingTimeout(d time.Duration) Option {
	return func(c *config) { c.pingTimeout = d }
}

// WithDefaultTTL sets the TTL used when Set is called with ttl <= 0.
// Defaults to the dashboard tier.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *config) { c.defaultTTL = d }
}
