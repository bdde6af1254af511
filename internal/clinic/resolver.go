package clinic

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/medibot/clinic-scheduler/internal/sheet"
)

// DefaultSettingsTTL is how long a resolved configuration stays cached.
// Staleness up to the TTL is accepted; there is no invalidation hook.
const DefaultSettingsTTL = 5 * time.Minute

// Resolver reads and caches per-tenant clinic configurations.
type Resolver struct {
	store  sheet.Store
	cache  *settingsCache
	logger *zap.Logger
}

func NewResolver(store sheet.Store, ttl time.Duration, logger *zap.Logger) *Resolver {
	return newResolver(store, ttl, time.Now, logger)
}

func newResolver(store sheet.Store, ttl time.Duration, now func() time.Time, logger *zap.Logger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultSettingsTTL
	}
	return &Resolver{
		store:  store,
		cache:  newSettingsCache(ttl, now),
		logger: logger,
	}
}

// Get returns the tenant's configuration, from cache when fresh. A store
// read failure is not fatal: the hard-coded defaults are returned and
// deliberately not cached, so the next call retries the sheet.
func (r *Resolver) Get(ctx context.Context, tenant string) Configuration {
	if cfg, ok := r.cache.get(tenant); ok {
		return cfg
	}

	rows, err := r.store.ReadRange(ctx, tenant, SettingsRange)
	if err != nil {
		r.logger.Warn("settings read failed, using defaults",
			zap.String("tenant", tenant),
			zap.Error(err))
		return Defaults()
	}

	cfg := parseSettings(rows)
	r.cache.set(tenant, cfg)
	return cfg
}
