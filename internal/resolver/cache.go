package resolver

import (
	"sync"
	"time"
)

// CatalogCache memoizes catalog listings keyed by their source (for the CLI,
// the snapshot directory). It is an explicit handle passed by reference;
// TTL is checked at lookup time. A zero TTL on Set means no expiry.
type CatalogCache struct {
	mu    sync.RWMutex
	items map[string]catalogCacheItem
}

type catalogCacheItem struct {
	entries []CatalogEntry
	expiry  time.Time
}

// NewCatalogCache creates an empty cache.
func NewCatalogCache() *CatalogCache {
	return &CatalogCache{items: make(map[string]catalogCacheItem)}
}

// Get returns the cached listing for key if present and not expired.
func (c *CatalogCache) Get(key string) ([]CatalogEntry, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if !item.expiry.IsZero() && time.Now().After(item.expiry) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.entries, true
}

// Set stores a listing under key with the given TTL.
func (c *CatalogCache) Set(key string, entries []CatalogEntry, ttl time.Duration) {
	var expiry time.Time
	if ttl > 0 {
		expiry = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = catalogCacheItem{entries: entries, expiry: expiry}
	c.mu.Unlock()
}

// Delete removes a cached listing.
func (c *CatalogCache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}
