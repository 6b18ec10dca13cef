package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedis(client, zap.NewNop())
}

// newDeadStore returns a store whose backend is unreachable.
func newDeadStore(t *testing.T) Store {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, zap.NewNop(), WithCommandTimeout(200*time.Millisecond))
}

func TestRedisSetGet(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	_, ok := s.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	val, ok := s.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)
}

func TestRedisSetAttachesExpiry(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 90*time.Second))
	assert.Equal(t, 90*time.Second, mr.TTL("k"))

	mr.FastForward(91 * time.Second)
	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisSetDefaultTTL(t *testing.T) {
	mr, _ := newTestStore(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewRedis(client, zap.NewNop(), WithDefaultTTL(45*time.Second))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	assert.Equal(t, 45*time.Second, mr.TTL("k"))
}

func TestRedisDelete(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Minute))

	n, err := s.Delete(ctx, "a", "b", "nope")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Delete(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisKeysPattern(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "fraudwatch:alert-detail:1", []byte("a"), time.Minute))
	require.NoError(t, s.Set(ctx, "fraudwatch:alert-detail:2", []byte("b"), time.Minute))
	require.NoError(t, s.Set(ctx, "fraudwatch:user-session:u1", []byte("s"), time.Minute))

	keys, err := s.Keys(ctx, "fraudwatch:alert-detail*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fraudwatch:alert-detail:1", "fraudwatch:alert-detail:2"}, keys)
}

func TestRedisIncrWindow(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	n, err := s.IncrWindow(ctx, "ctr", 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 60*time.Second, mr.TTL("ctr"))

	n, err = s.IncrWindow(ctx, "ctr", 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Only the first increment of a window attaches the expiry; later
	// increments must not stretch it.
	mr.FastForward(30 * time.Second)
	_, err = s.IncrWindow(ctx, "ctr", 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, mr.TTL("ctr"))

	// Window lapse resets the counter.
	mr.FastForward(31 * time.Second)
	n, err = s.IncrWindow(ctx, "ctr", 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisPing(t *testing.T) {
	_, s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))

	dead := newDeadStore(t)
	assert.Error(t, dead.Ping(context.Background()))
}

func TestRedisGetFailsOpen(t *testing.T) {
	dead := newDeadStore(t)

	val, ok := dead.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestRedisWriteErrorsSurface(t *testing.T) {
	dead := newDeadStore(t)
	ctx := context.Background()

	assert.Error(t, dead.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := dead.IncrWindow(ctx, "ctr", time.Minute)
	assert.Error(t, err)
	_, err = dead.Keys(ctx, "*")
	assert.Error(t, err)
}
