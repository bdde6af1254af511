package clinic

import (
	"sync"
	"time"
)

// settingsCache is a TTL cache keyed by tenant handle. The clock is
// injected so expiry is testable without sleeping.
type settingsCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	cfg       Configuration
	expiresAt time.Time
}

func newSettingsCache(ttl time.Duration, now func() time.Time) *settingsCache {
	return &settingsCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *settingsCache) get(tenant string) (Configuration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[tenant]
	if !ok || c.now().After(e.expiresAt) {
		return Configuration{}, false
	}
	return e.cfg, true
}

func (c *settingsCache) set(tenant string, cfg Configuration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[tenant] = cacheEntry{
		cfg:       cfg,
		expiresAt: c.now().Add(c.ttl),
	}
}
