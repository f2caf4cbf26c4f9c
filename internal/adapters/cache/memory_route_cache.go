package cache

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"sync"
	"time"
)

// DefaultMemoryRouteCacheEntries bounds the memory cache when no limit is given.
const DefaultMemoryRouteCacheEntries = 10_000

type memoryEntry struct {
	route   domain.OptimizedRoute
	expires time.Time
}

// MemoryRouteCache is a process-local route cache used when no Redis is
// configured. Expired entries are dropped on Get and swept on Put at most
// once per TTL. When full, Put evicts the entry closest to expiry.
type MemoryRouteCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	nextSweep  time.Time
	entries    map[string]memoryEntry
}

// NewMemoryRouteCache returns a cache holding at most maxEntries routes;
// maxEntries <= 0 selects DefaultMemoryRouteCacheEntries. A ttl <= 0 keeps
// entries until evicted.
func NewMemoryRouteCache(ttl time.Duration, maxEntries int) *MemoryRouteCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryRouteCacheEntries
	}
	return &MemoryRouteCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]memoryEntry),
	}
}

func (c *MemoryRouteCache) Get(ctx context.Context, key string) (domain.OptimizedRoute, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.OptimizedRoute{}, false, nil
	}
	if c.expired(e, c.now()) {
		delete(c.entries, key)
		return domain.OptimizedRoute{}, false, nil
	}
	return e.route, true, nil
}

func (c *MemoryRouteCache) Put(ctx context.Context, key string, route domain.OptimizedRoute) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.ttl > 0 && !now.Before(c.nextSweep) {
		c.sweep(now)
		c.nextSweep = now.Add(c.ttl)
	}

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.sweep(now)
		if len(c.entries) >= c.maxEntries {
			c.evictOldest()
		}
	}

	c.entries[key] = memoryEntry{route: route, expires: now.Add(c.ttl)}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryRouteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryRouteCache) expired(e memoryEntry, now time.Time) bool {
	return c.ttl > 0 && !now.Before(e.expires)
}

func (c *MemoryRouteCache) sweep(now time.Time) {
	for k, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, k)
		}
	}
}

// evictOldest drops the entry that expires first; with a fixed TTL that is
// the oldest insert. Ties go to the smaller key.
func (c *MemoryRouteCache) evictOldest() {
	var (
		oldest string
		at     time.Time
		found  bool
	)
	for k, e := range c.entries {
		if !found || e.expires.Before(at) || (e.expires.Equal(at) && k < oldest) {
			oldest, at, found = k, e.expires, true
		}
	}
	if found {
		delete(c.entries, oldest)
	}
}
