// internal/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process fallback used when Redis is not
// configured. Expiry is lazy: stale entries are dropped on read, and
// each Put prunes whatever has expired since the last write.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     time.Duration
	nowFn   func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*Entry),
		ttl:     ttl,
		nowFn:   time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*Entry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !entry.Fresh(c.nowFn(), c.ttl) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return entry, nil
}

func (c *MemoryCache) Put(ctx context.Context, key string, entry *Entry) error {
	now := c.nowFn()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if !e.Fresh(now, c.ttl) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = entry
	return nil
}

// Len reports the number of stored entries, stale ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
