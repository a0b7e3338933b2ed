// Package cache provides a body-keyed response cache for the score API.
// Scoring is deterministic for a given request body, so the serialized
// response can be replayed for any identical body until the TTL expires.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/bcat-alignment/internal/monitoring"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

func (e *entry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// Cache is a TTL cache of serialized score responses, keyed by a digest
// of the request body. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
}

// New creates a cache with the given TTL and starts its background sweep.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
	go c.sweep()
	return c
}

// sweep drops expired entries periodically so an idle service does not
// hold stale responses for longer than one sweep interval past their TTL.
func (c *Cache) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, e := range c.entries {
			if e.expired() {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}

func bodyKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for a key, if present and fresh.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || e.expired() {
		return nil, false
	}
	return e.payload, true
}

// Set stores a response under the key with the cache's TTL.
func (c *Cache) Set(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		payload:   payload,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
}

// Size returns the number of entries, fresh or expired.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Stats reports entry counts for the cache stats endpoint.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expired := 0
	for _, e := range c.entries {
		if e.expired() {
			expired++
		}
	}

	return map[string]interface{}{
		"total_items":   len(c.entries),
		"expired_items": expired,
		"active_items":  len(c.entries) - expired,
		"ttl_seconds":   c.ttl.Seconds(),
	}
}

// Middleware serves score responses from the cache. Only POST /score is
// cached; every other route passes through untouched.
func (c *Cache) Middleware(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodPost || ctx.Request.URL.Path != "/score" {
			ctx.Next()
			return
		}

		body, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			ctx.Next()
			return
		}
		ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

		key := bodyKey(body)
		if payload, ok := c.Get(key); ok {
			metrics.IncrementCacheHit()
			ctx.Set("cache_hit", true)
			ctx.Data(http.StatusOK, "application/json", payload)
			ctx.Abort()
			return
		}
		metrics.IncrementCacheMiss()

		rec := &recordingWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = rec
		ctx.Next()

		// Only successful score responses are worth replaying.
		if ctx.Writer.Status() == http.StatusOK {
			c.Set(key, rec.buf.Bytes())
		}
	}
}

// recordingWriter tees the response body so it can be cached after the
// handler has written it.
type recordingWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *recordingWriter) Write(data []byte) (int, error) {
	w.buf.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
