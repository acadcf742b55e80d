package store

import (
	"sync"
	"time"
)

// TTLCache is the session-scoped cache backing "my applications" and
// similar short-lived values. The clock is injectable so freshness-window
// behavior is testable.
type TTLCache[T any] struct {
	mu    sync.Mutex
	items map[string]cacheItem[T]
	ttl   time.Duration
	now   func() time.Time
}

type cacheItem[T any] struct {
	value      T
	expiration time.Time
}

func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		items: make(map[string]cacheItem[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// SetClock replaces the cache's time source. Tests only.
func (c *TTLCache[T]) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Set stores a value under key for the cache's TTL.
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem[T]{
		value:      value,
		expiration: c.now().Add(c.ttl),
	}
}

// Get retrieves a fresh value without deleting it; expired entries read as
// absent.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, found := c.items[key]
	if !found || c.now().After(item.expiration) {
		var zero T
		return zero, false
	}
	return item.value, true
}

// Delete removes one entry.
func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Purge removes every entry.
func (c *TTLCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem[T])
}
