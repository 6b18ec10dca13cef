package cache

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config carries the redis connection settings. One client is built per
// process and shared by every component; go-redis connects lazily, so the
// eager connectivity check only runs when LazyConnect is off.
type Config struct {
	Host           string
	Port           int
	Password       string
	DB             int
	MaxRetries     int
	LazyConnect    bool
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
}

// DefaultConfig returns the settings used when no environment overrides
// are present.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           6379,
		DB:             0,
		MaxRetries:     3,
		LazyConnect:    true,
		KeepAlive:      30 * time.Second,
		ConnectTimeout: 10 * time.Second,
		CommandTimeout: DefaultCommandTimeout,
	}
}

// ConfigFromEnv loads Config from REDIS_* environment variables, falling
// back to DefaultConfig for anything unset.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Host = v
	}
	if v, ok := envInt("REDIS_PORT"); ok {
		cfg.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v, ok := envInt("REDIS_DB"); ok {
		cfg.DB = v
	}
	if v, ok := envInt("REDIS_MAX_RETRIES"); ok {
		cfg.MaxRetries = v
	}
	if v := os.Getenv("REDIS_LAZY_CONNECT"); v != "" {
		cfg.LazyConnect = v == "true" || v == "1"
	}
	if v, ok := envSeconds("REDIS_KEEPALIVE_SECONDS"); ok {
		cfg.KeepAlive = v
	}
	if v, ok := envSeconds("REDIS_CONNECT_TIMEOUT_SECONDS"); ok {
		cfg.ConnectTimeout = v
	}
	if v, ok := envSeconds("REDIS_COMMAND_TIMEOUT_SECONDS"); ok {
		cfg.CommandTimeout = v
	}
	return cfg
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envSeconds(key string) (time.Duration, bool) {
	n, ok := envInt(key)
	if !ok {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}

// Addr returns the host:port dial address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewClient builds the shared redis client. MaxRetries bounds reconnect
// attempts per command, so a persistent outage degrades to consistent
// fail-open behavior instead of a retry storm.
func (c Config) NewClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        c.Addr(),
		Password:    c.Password,
		DB:          c.DB,
		MaxRetries:  c.MaxRetries,
		DialTimeout: c.ConnectTimeout,
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: c.ConnectTimeout, KeepAlive: c.KeepAlive}
			return d.DialContext(ctx, network, addr)
		},
	})
}

// Connect builds the client and, unless LazyConnect is set, verifies
// connectivity before returning it.
func (c Config) Connect(ctx context.Context) (*redis.Client, error) {
	client := c.NewClient()
	if !c.LazyConnect {
		pctx, cancel := context.WithTimeout(ctx, c.ConnectTimeout)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("cache: connect %s: %w", c.Addr(), err)
		}
	}
	return client, nil
}
