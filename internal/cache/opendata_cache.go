package cache

import (
	"context"
	"crypto/sha1"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// OpenDataCache keeps upstream open-data responses in redis for a short
// TTL so bursts of identical lookups do not hammer the government APIs.
// Keys are hashed request URLs.
type OpenDataCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewOpenDataCache(client *redisv9.Client, ttl time.Duration) *OpenDataCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OpenDataCache{client: client, ttl: ttl}
}

func (c *OpenDataCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, c.cacheKey(key)).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get open-data response failed: %w", err)
	}
	return raw, true, nil
}

func (c *OpenDataCache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, c.cacheKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set open-data response failed: %w", err)
	}
	return nil
}

func (c *OpenDataCache) cacheKey(requestURL string) string {
	return fmt.Sprintf("opendata:resp:%x", sha1.Sum([]byte(requestURL)))
}
