package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := ConfigFromEnv()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.True(t, cfg.LazyConnect)
	assert.Equal(t, DefaultCommandTimeout, cfg.CommandTimeout)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_MAX_RETRIES", "5")
	t.Setenv("REDIS_LAZY_CONNECT", "false")
	t.Setenv("REDIS_KEEPALIVE_SECONDS", "15")
	t.Setenv("REDIS_CONNECT_TIMEOUT_SECONDS", "4")
	t.Setenv("REDIS_COMMAND_TIMEOUT_SECONDS", "2")

	cfg := ConfigFromEnv()
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.False(t, cfg.LazyConnect)
	assert.Equal(t, 15*time.Second, cfg.KeepAlive)
	assert.Equal(t, 4*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 2*time.Second, cfg.CommandTimeout)
}

func TestConfigIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-port")
	cfg := ConfigFromEnv()
	assert.Equal(t, 6379, cfg.Port)
}

func TestConnectEager(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Host = mr.Host()
	cfg.Port, _ = strconv.Atoi(mr.Port())
	cfg.LazyConnect = false

	client, err := cfg.Connect(context.Background())
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConnectEagerFailsFast(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.LazyConnect = false
	cfg.ConnectTimeout = 100 * time.Millisecond
	cfg.MaxRetries = -1

	_, err := cfg.Connect(context.Background())
	assert.Error(t, err)
}

func TestConnectLazySucceedsWithoutBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1

	client, err := cfg.Connect(context.Background())
	require.NoError(t, err)
	client.Close()
}
