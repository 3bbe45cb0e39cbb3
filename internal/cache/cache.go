package cache

import (
	"sync"
	"time"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
)

type entry struct {
	value     model.Aggregate
	expiresAt time.Time
}

// Cache is a short-TTL memoization of aggregate bundles keyed by source id.
// Expiry is lazy: entries are checked on read, never swept. An instance is
// constructed once by the server and handed to the service, no globals.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached aggregate for key. A value whose TTL has elapsed
// is never returned.
func (c *Cache) Get(key string) (model.Aggregate, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return model.Aggregate{}, false
	}
	return e.value, true
}

// Set stores value under key for ttl.
func (c *Cache) Set(key string, value model.Aggregate, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Delete drops the entry for key, if any.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SetClock overrides the time source, used by tests.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
