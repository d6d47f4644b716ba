package proxy

import "sync"

// Cache stores generated proxy bodies keyed by lower(area|controller).
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryCache is an unbounded, concurrency-safe Cache. Entries live as long
// as the cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	return value, ok
}

// Set implements Cache.
func (c *MemoryCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil {
		c.entries = make(map[string]string)
	}
	c.entries[key] = value
}

// Len returns the number of cached controllers.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
