// Package cache is a short-TTL redis cache for computed availability
// responses. It is optional: a nil *Cache is safe to call and always
// misses, and redis errors degrade to misses rather than failures.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Open connects to redis. An empty URL returns a nil cache, which callers
// can use directly.
func Open(url string, ttl time.Duration) (*Cache, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{rdb: redis.NewClient(opts), ttl: ttl}, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// AvailabilityKey builds the cache key for one availability query.
func AvailabilityKey(restaurantID int64, date string, guests int) string {
	return fmt.Sprintf("avail:%d:%s:%d", restaurantID, date, guests)
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if c == nil {
		return
	}
	// Best effort; a failed write just means the next request recomputes.
	_ = c.rdb.Set(ctx, key, value, c.ttl).Err()
}
