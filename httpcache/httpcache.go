// Package httpcache provides a read-through response cache for HTTP
// handlers. Responses are keyed by method and path; a hit short-circuits
// the downstream handler, a miss invokes it and persists the body it
// produced. Cache writes happen on a background worker so the client is
// never delayed by the store, and a failed write is logged and swallowed.
package httpcache

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/tollguard/fraudwatch/cache"
)

// writeQueueSize bounds the backlog of pending cache writes. When the
// queue is full, new writes are dropped (and logged) rather than blocking
// the response path.
const writeQueueSize = 256

// envelope is the cached representation of a response.
type envelope struct {
	ContentType string `msgpack:"content_type"`
	Body        []byte `msgpack:"body"`
}

// ResponseCache wraps handlers with read-through caching.
type ResponseCache struct {
	store  cache.Store
	log    *zap.Logger
	ttl    time.Duration
	writes chan pendingWrite
	wg     sync.WaitGroup
	once   sync.Once
}

type pendingWrite struct {
	key  string
	data []byte
}

// Option configures a ResponseCache.
type Option func(*ResponseCache)

// WithTTL overrides the cache TTL for wrapped routes. Defaults to the
// dashboard tier.
func WithTTL(d time.Duration) Option {
	return func(rc *ResponseCache) { rc.ttl = d }
}

// New returns a ResponseCache and starts its background write worker.
// Call Close to drain the worker on shutdown.
func New(store cache.Store, log *zap.Logger, opts ...Option) *ResponseCache {
	rc := &ResponseCache{
		store:  store,
		log:    log,
		ttl:    cache.TTLFor(cache.HTTPResponse),
		writes: make(chan pendingWrite, writeQueueSize),
	}
	for _, opt := range opts {
		opt(rc)
	}
	rc.wg.Add(1)
	go rc.writer()
	return rc
}

// writer persists queued responses. Writes run detached from any request:
// an aborted request never cancels them and a slow store never delays a
// client. Failures are observable in the log, nowhere else.
func (rc *ResponseCache) writer() {
	defer rc.wg.Done()
	for w := range rc.writes {
		if err := rc.store.Set(context.Background(), w.key, w.data, rc.ttl); err != nil {
			rc.log.Warn("response cache write failed", zap.String("key", w.key), zap.Error(err))
		}
	}
}

// Close stops accepting writes and waits for queued ones to finish.
func (rc *ResponseCache) Close() {
	rc.once.Do(func() { close(rc.writes) })
	rc.wg.Wait()
}

// key derives the cache key from method and full request path (including
// the query string).
func key(r *http.Request) string {
	return cache.EntityKey(cache.HTTPResponse, r.Method+":"+r.URL.RequestURI())
}

// Handler wraps next with read-through response caching. Only successful
// (2xx) responses are cached; error responses always pass through uncached.
func (rc *ResponseCache) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		k := key(r)
		if data, ok := rc.store.Get(r.Context(), k); ok {
			var env envelope
			if err := msgpack.Unmarshal(data, &env); err == nil {
				if env.ContentType != "" {
					w.Header().Set("Content-Type", env.ContentType)
				}
				w.WriteHeader(http.StatusOK)
				w.Write(env.Body)
				return
			}
			// Corrupt entry: fall through to the handler and let the
			// fresh write replace it.
			rc.log.Warn("dropping corrupt response cache entry", zap.String("key", k))
			rc.store.Delete(r.Context(), k)
		}

		rec := newRecorder(w)
		next.ServeHTTP(rec, r)

		if rec.status < 200 || rec.status >= 300 {
			return
		}
		env := envelope{
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		}
		data, err := msgpack.Marshal(env)
		if err != nil {
			rc.log.Warn("response cache encode failed", zap.String("key", k), zap.Error(err))
			return
		}
		select {
		case rc.writes <- pendingWrite{key: k, data: data}:
		default:
			rc.log.Warn("response cache write queue full, dropping", zap.String("key", k))
		}
	})
}

// recorder tees the response body into a buffer while streaming it to the
// client unchanged.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func newRecorder(w http.ResponseWriter) *recorder {
	return &recorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
