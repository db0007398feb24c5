package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryCache is a size-bounded in-process LRU. Entries are stored as JSON
// so callers never share mutable values.
type MemoryCache struct {
	lru        *expirable.LRU[string, memoryEntry]
	defaultTTL time.Duration
}

// NewMemoryCache holds at most size entries; defaultTTL applies to Set
// calls with a zero TTL.
func NewMemoryCache(size int, defaultTTL time.Duration) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	// expiry is per entry and checked on Get, so the LRU itself has no TTL
	return &MemoryCache{
		lru:        expirable.NewLRU[string, memoryEntry](size, nil, 0),
		defaultTTL: defaultTTL,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	entry, ok := c.lru.Get(key)
	if !ok {
		return ErrMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.lru.Remove(key)
		return ErrMiss
	}
	return json.Unmarshal(entry.raw, dest)
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	entry := memoryEntry{raw: raw}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.lru.Add(key, entry)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
