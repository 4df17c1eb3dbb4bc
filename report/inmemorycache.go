package report

import (
	"sync"
	"time"
)

// InMemoryCache is a simple map-backed Cache implementation.
type InMemoryCache struct {
	entries map[string]cacheEntry
	config  CacheConfig
	mu      sync.RWMutex
}

type cacheEntry struct {
	report   *Report
	cachedAt time.Time
}

// NewInMemoryCache creates an empty in-memory report cache.
func NewInMemoryCache(config CacheConfig) *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]cacheEntry),
		config:  config,
	}
}

// Get retrieves the cached report for a document id, honoring the TTL
// when one is configured.
func (c *InMemoryCache) Get(fileID string) *Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[fileID]
	if !ok {
		return nil
	}
	if c.config.TTL > 0 && time.Since(entry.cachedAt) > c.config.TTL {
		return nil
	}
	return entry.report
}

// Set stores a report for a document id.
func (c *InMemoryCache) Set(fileID string, r *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[fileID] = cacheEntry{report: r, cachedAt: time.Now()}
}

// Invalidate drops the cached report for one document id.
func (c *InMemoryCache) Invalidate(fileID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, fileID)
}

// InvalidateAll drops every cached report.
func (c *InMemoryCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}
