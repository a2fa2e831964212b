package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// MemoryRateCache keeps rates in process memory with a per-entry TTL.
type MemoryRateCache struct {
	store *gocache.Cache
}

// NewMemoryRateCache creates a cache whose entries expire after ttl.
// Expired entries are purged every 2*ttl.
func NewMemoryRateCache(ttl time.Duration) *MemoryRateCache {
	return &MemoryRateCache{store: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryRateCache) Get(_ context.Context, key string) (decimal.Decimal, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, ok := v.(decimal.Decimal)
	return d, ok
}

func (c *MemoryRateCache) Set(_ context.Context, key string, value decimal.Decimal) {
	c.store.SetDefault(key, value)
}

// Len reports the number of cached entries, including expired ones not yet purged.
func (c *MemoryRateCache) Len() int { return c.store.ItemCount() }
