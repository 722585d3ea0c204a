package reports

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

// CriticalCache stores the critical-products list between stock changes.
type CriticalCache interface {
	Get(ctx context.Context) ([]CriticalProduct, bool)
	Set(ctx context.Context, rows []CriticalProduct)
	Invalidate(ctx context.Context) error
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// RedisCriticalCache keeps the list as JSON under a single key. Read and
// write failures only cost a trip to the database.
type RedisCriticalCache struct {
	store cacheStore
	key   string
	ttl   time.Duration
	logg  *logger.Logger
}

// NewRedisCriticalCache builds the cache; ttl <= 0 disables expiry.
func NewRedisCriticalCache(store cacheStore, ttl time.Duration, logg *logger.Logger) *RedisCriticalCache {
	if logg == nil {
		logg = logger.Nop()
	}
	return &RedisCriticalCache{
		store: store,
		key:   store.CacheKey("reports", "critical"),
		ttl:   ttl,
		logg:  logg,
	}
}

func (c *RedisCriticalCache) Get(ctx context.Context) ([]CriticalProduct, bool) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "reports.cache_read_failed")
		}
		return nil, false
	}
	var rows []CriticalProduct
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "reports.cache_decode_failed")
		return nil, false
	}
	return rows, true
}

func (c *RedisCriticalCache) Set(ctx context.Context, rows []CriticalProduct) {
	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, c.key, payload, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "reports.cache_write_failed")
	}
}

// Invalidate drops the cached list; the stock ledger calls it after every decrement.
func (c *RedisCriticalCache) Invalidate(ctx context.Context) error {
	return c.store.Del(ctx, c.key)
}
