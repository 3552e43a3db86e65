package riskcheck

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache caches successful reputation lookups so repeated cycles do
// not re-hit the API for the same mint inside the TTL.
type ReportCache interface {
	Get(ctx context.Context, mint string) (*Report, bool)
	Set(ctx context.Context, mint string, report *Report)
}

// NopCache is a ReportCache that caches nothing.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Report, bool) { return nil, false }
func (NopCache) Set(context.Context, string, *Report)        {}

// RedisCache implements ReportCache on Redis. Cache failures degrade to
// misses; they are never surfaced to the assessment path.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewRedisCache creates a Redis-backed report cache.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger *log.Logger) *RedisCache {
	if logger == nil {
		logger = log.Default()
	}
	return &RedisCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Compile-time interface checks.
var (
	_ ReportCache = NopCache{}
	_ ReportCache = (*RedisCache)(nil)
)

func cacheKey(mint string) string {
	return "riskcheck:report:" + mint
}

// Get returns the cached report for a mint, if present.
func (c *RedisCache) Get(ctx context.Context, mint string) (*Report, bool) {
	data, err := c.rdb.Get(ctx, cacheKey(mint)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Printf("risk report cache get %s: %v", mint, err)
		}
		return nil, false
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Printf("risk report cache decode %s: %v", mint, err)
		return nil, false
	}
	return &report, true
}

// Set stores a report under the configured TTL.
func (c *RedisCache) Set(ctx context.Context, mint string, report *Report) {
	data, err := json.Marshal(report)
	if err != nil {
		c.logger.Printf("risk report cache encode %s: %v", mint, err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(mint), data, c.ttl).Err(); err != nil {
		c.logger.Printf("risk report cache set %s: %v", mint, err)
	}
}
