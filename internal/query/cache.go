// Package query is the data-fetching layer between the view controllers
// and the resource services: queries are keyed by resource name, cached
// in Redis for a bounded freshness window, and invalidated by key after a
// sibling mutation succeeds. The cached collections are owned exclusively
// here; views read through Fetch and never write into the cache.
package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"dealer-dashboard/internal/common/database"
	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/common/metrics"
	"dealer-dashboard/internal/services"
)

// Well-known query keys. Invalidation is by key, not by diffing.
const (
	KeyDealers     = "dealers"
	KeySubmissions = "submissions"
	KeyOverview    = "overview"
)

const keyPrefix = "query:"

type Cache struct {
	store  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func New(store *database.RedisClient, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "query-cache"}),
	}
}

// Fetch returns the cached value for key when it is still fresh, and
// otherwise runs fn and caches a successful result for the freshness
// window. A fetch whose context is cancelled is discarded entirely: its
// result is neither cached nor returned as data.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) services.Result[T]) services.Result[T] {
	if cached, ok := c.lookup(ctx, key); ok {
		var data T
		if err := json.Unmarshal(cached, &data); err == nil {
			metrics.QueryCacheHits.WithLabelValues(key).Inc()
			return services.OK(data)
		}
		// Unreadable entry: drop it and fall through to a fresh fetch.
		c.Invalidate(ctx, key)
	}
	metrics.QueryCacheMisses.WithLabelValues(key).Inc()

	res := fn(ctx)

	if ctx.Err() != nil {
		return services.Fail[T](apperrors.NewRequestCancelledError(key))
	}
	if !res.Success {
		return res
	}

	if raw, err := json.Marshal(res.Data); err == nil {
		if err := c.store.Set(ctx, keyPrefix+key, raw, c.ttl); err != nil {
			c.logger.Warn("cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return res
}

// Invalidate marks the given query keys stale so the next Fetch refetches.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = keyPrefix + k
	}
	if err := c.store.Del(ctx, prefixed...); err != nil {
		c.logger.Warn("cache invalidation failed", map[string]interface{}{
			"keys":  keys,
			"error": err.Error(),
		})
	}
}

func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.store.Get(ctx, keyPrefix+key)
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil, false
	}
	return []byte(val), true
}
