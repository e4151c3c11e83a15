package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ocireg/registry/internal/logx"
)

// RedisTagCache backs TagCache with a Redis instance. Entries expire on
// their own after ttl as a safety net; writes through the store still
// invalidate/repopulate them immediately, so the TTL only bounds staleness
// in the face of a crash between a filesystem write and the cache update.
type RedisTagCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logx.Logger
}

// NewRedisTagCache returns a cache backed by a Redis client for addr
// (host:port). No connection is attempted here; the client connects on
// first use.
func NewRedisTagCache(addr, password string, db int, ttl time.Duration, log *logx.Logger) *RedisTagCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisTagCache{client: client, ttl: ttl, log: log}
}

func redisKey(k Key) string {
	return fmt.Sprintf("tag:%s/%s:%s", k.Repository, k.Image, k.Tag)
}

func (c *RedisTagCache) Get(ctx context.Context, key Key) (string, bool) {
	val, err := c.client.Get(ctx, redisKey(key)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithFunc().WithError(err).Debug("tag cache read failed, falling back to disk")
		}
		return "", false
	}
	return val, true
}

func (c *RedisTagCache) Set(ctx context.Context, key Key, digestHex string) {
	if err := c.client.Set(ctx, redisKey(key), digestHex, c.ttl).Err(); err != nil {
		c.log.WithFunc().WithError(err).Debug("tag cache write failed")
	}
}

func (c *RedisTagCache) Invalidate(ctx context.Context, key Key) {
	if err := c.client.Del(ctx, redisKey(key)).Err(); err != nil {
		c.log.WithFunc().WithError(err).Debug("tag cache invalidate failed")
	}
}

// Close releases the underlying Redis connection pool.
func (c *RedisTagCache) Close() error {
	return c.client.Close()
}
