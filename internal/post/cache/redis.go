package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/morikuni/failure"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when NewRedisCache is given a non-positive TTL.
const DefaultTTL = time.Hour

// RedisCache stores rendered post HTML under "<prefix><id>:<content hash>",
// so a changed body never hits a stale entry.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed render cache. Prefix may be empty.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "render:"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// Key builds the cache key for a post body.
func (r *RedisCache) Key(id, content string) string {
	sum := sha256.Sum256([]byte(content))
	return r.prefix + id + ":" + hex.EncodeToString(sum[:8])
}

// Get returns the cached HTML and whether it was present.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, failure.Wrap(err, failure.Context{"key": key})
	}
	return s, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key, html string) error {
	if err := r.client.Set(ctx, key, html, r.ttl).Err(); err != nil {
		return failure.Wrap(err, failure.Context{"key": key})
	}
	return nil
}
