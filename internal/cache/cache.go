// Package cache provides the optional Redis-backed cache for attribute
// option lists. The dashboard works without it; when REDIS_ADDR is unset the
// constructor returns nil and callers fall through to the metrics API.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/config"
)

// OptionCache caches option lists in Redis with a TTL. Cache failures are
// logged and treated as misses; the cache never surfaces errors to callers.
type OptionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis per the cache configuration. An empty Addr disables
// caching and returns nil, which every consumer treats as "no cache".
func New(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (*OptionCache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	return &OptionCache{client: client, ttl: cfg.TTL, logger: logger}, nil
}

// GetOptions returns the cached option list for key, reporting a miss on any
// error or absent key.
func (c *OptionCache) GetOptions(ctx context.Context, key string) ([]string, bool) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var opts []string
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		c.logger.Warn("cache entry corrupt, discarding", "key", key, "error", err)
		c.client.Del(ctx, key)
		return nil, false
	}
	return opts, true
}

// SetOptions stores the option list under key with the configured TTL.
// Write failures are logged and ignored.
func (c *OptionCache) SetOptions(ctx context.Context, key string, opts []string) {
	raw, err := json.Marshal(opts)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Ping verifies the Redis connection is alive.
func (c *OptionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (c *OptionCache) Close() error {
	return c.client.Close()
}
