package statusboard

import (
	"sync"
	"time"

	"github.com/sycamoredash/statusboard/pkg/metrics"
)

// Cache is a time-boxed memoization map. Entries expire ttl after
// insertion; mutation is full-replace per key or full-clear only.
// A zero or negative ttl disables memoization entirely, which tests
// and one-shot commands use as a no-op cache.
type Cache[V any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// NewCache returns a cache with the given metric label and ttl.
func NewCache[V any](name string, ttl time.Duration) *Cache[V] {
	return NewCacheWithClock[V](name, ttl, time.Now)
}

// NewCacheWithClock injects the clock, for tests.
func NewCacheWithClock[V any](name string, ttl time.Duration, now func() time.Time) *Cache[V] {
	return &Cache[V]{
		name:    name,
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry[V]),
	}
}

// Get returns the live entry for key, if any.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		delete(c.entries, key)
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		var zero V
		return zero, false
	}
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return e.value, true
}

// Set stores value under key for the cache's ttl.
func (c *Cache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, expires: c.now().Add(c.ttl)}
}

// Delete drops one key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[V])
}
