package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisStore struct {
	client *redis.Client
	log    *zap.Logger
	cfg    config
}

var _ Store = (*redisStore)(nil)

// incrWindow increments a counter and attaches the expiry only on the
// increment that created the key. Runs server-side so concurrent callers
// never race the INCR against the EXPIRE.
var incrWindow = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// NewRedis returns a Store backed by redis. The caller owns the
// redis.Client lifecycle; Close is a no-op on the client.
func NewRedis(client *redis.Client, log *zap.Logger, opts ...Option) Store {
	return &redisStore{
		client: client,
		log:    log,
		cfg:    applyOptions(opts),
	}
}

func (s *redisStore) cmdCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.cfg.commandTimeout)
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	cctx, cancel := s.cmdCtx(ctx)
	defer cancel()
	data, err := s.client.Get(cctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		// Fail open: a degraded backend reads as a miss.
		s.log.Warn("cache get degraded to miss", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

func (s *redisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.cfg.defaultTTL
	}
	cctx, cancel := s.cmdCtx(ctx)
	defer cancel()
	// SET with EX applies value and expiry in one command.
	if err := s.client.Set(cctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	cctx, cancel := s.cmdCtx(ctx)
	defer cancel()
	n, err := s.client.Del(cctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("cache: delete: %w", err)
	}
	return n, nil
}

func (s *redisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	cctx, cancel := s.cmdCtx(ctx)
	defer cancel()
	keys, err := s.client.Keys(cctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: keys %q: %w", pattern, err)
	}
	return keys, nil
}

func (s *redisStore) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	cctx, cancel := s.cmdCtx(ctx)
	defer cancel()
	n, err := incrWindow.Run(cctx, s.client, []string{key}, int(window/time.Second)).Int64()
	if err != nil {
		return 0, fmt.Errorf("cache: incr %s: %w", key, err)
	}
	return n, nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(ctx, s.cfg.pingTimeout)
	defer cancel()
	if err := s.client.Ping(pctx).Err(); err != nil {
		return fmt.Errorf("cache: ping: %w", err)
	}
	return nil
}

// Close is a no-op; the caller owns the redis.Client lifecycle.
func (s *redisStore) Close() error {
	return nil
}
