// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	stderrors "planpal/internal/common/errors"
)

// RedisCache stores entries in Redis with the freshness window as the
// key TTL, so expiry is handled by the server.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Entry, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, stderrors.NewCacheUnavailableError(err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Treat a corrupt entry as a miss so the caller refetches.
		return nil, nil
	}

	return &entry, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return stderrors.NewCacheUnavailableError(err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return stderrors.NewCacheUnavailableError(err)
	}
	return nil
}
