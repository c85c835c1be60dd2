package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/redis"
)

const keyPrefix = "lse:search:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache caches ranked results per ordered keyword pair. Keyword order
// is part of the key because ties favour the first keyword.
type QueryCache struct {
	store      Store
	ttl        time.Duration
	generation string
	group      singleflight.Group
	metrics    *metrics.Metrics
	logger     *slog.Logger
	hits       atomic.Int64
	misses     atomic.Int64
}

// New returns a cache over store. generation namespaces keys so results of
// an earlier build are never served for a new index. m may be nil.
func New(store Store, ttl time.Duration, generation string, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:      store,
		ttl:        ttl,
		generation: generation,
		metrics:    m,
		logger:     slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached result for the pair. Store errors count as misses.
func (c *QueryCache) Get(ctx context.Context, kw1, kw2 string, limit int) (*executor.SearchResult, bool) {
	key := c.buildKey(kw1, kw2, limit)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil, false
	}
	var result executor.SearchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hit()
	c.logger.Debug("cache hit", "kw1", kw1, "kw2", kw2, "key", key)
	return &result, true
}

// Set stores result for the pair with the cache TTL.
func (c *QueryCache) Set(ctx context.Context, kw1, kw2 string, limit int, result *executor.SearchResult) {
	key := c.buildKey(kw1, kw2, limit)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or runs computeFn once per key,
// however many callers ask concurrently.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	kw1, kw2 string,
	limit int,
	computeFn func() (*executor.SearchResult, error),
) (*executor.SearchResult, bool, error) {
	if result, ok := c.Get(ctx, kw1, kw2, limit); ok {
		return result, true, nil
	}
	key := c.buildKey(kw1, kw2, limit)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, kw1, kw2, limit, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.SearchResult), false, nil
}

// Invalidate deletes every cached search result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counts since New.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) hit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

func (c *QueryCache) buildKey(kw1, kw2 string, limit int) string {
	raw := fmt.Sprintf("%s\x00%s\x00limit=%d", kw1, kw2, limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%s:%x", keyPrefix, c.generation, hash[:16])
}
