package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	CatalogVersionKey = "catalog:version"
	catalogKeyPrefix  = "catalog:v:"
)

// CacheVersion is the catalog generation a lookup was made under. The zero
// value means the version could not be read.
type CacheVersion int64

// CatalogCache caches read-mostly catalog lookups. Invalidate drops every
// entry at once by bumping a version that is part of each key.
//
// Get reports the version it looked under, hit or miss, and SetAsync writes
// under that version. A value loaded before an Invalidate therefore lands
// under the dead generation and is never served.
type CatalogCache interface {
	Get(ctx context.Context, key string, out any) (CacheVersion, bool)
	SetAsync(version CacheVersion, key string, value any)
	Invalidate(ctx context.Context) error
}

type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCatalogCache {
	return &RedisCatalogCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCatalogCache) Get(ctx context.Context, key string, out any) (CacheVersion, bool) {
	version, err := c.version(ctx)
	if err != nil {
		return 0, false
	}

	data, err := c.client.Get(ctx, c.versionedKey(version, key)).Bytes()
	if err != nil {
		return version, false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("failed to unmarshal cached catalog entry", zap.String("key", key), zap.Error(err))
		return version, false
	}
	return version, true
}

func (c *RedisCatalogCache) SetAsync(version CacheVersion, key string, value any) {
	if version <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to marshal catalog entry", zap.String("key", key), zap.Error(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := c.client.Set(ctx, c.versionedKey(version, key), data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache catalog entry", zap.String("key", key), zap.Error(err))
		}
	}()
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	v, err := c.client.Incr(ctx, CatalogVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	c.logger.Info("catalog cache invalidated", zap.Int64("version", v))
	return nil
}

// version reads the current version, creating it on first use.
func (c *RedisCatalogCache) version(ctx context.Context) (CacheVersion, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		v, err := c.client.Get(ctx, CatalogVersionKey).Int64()
		if err == nil && v > 0 {
			return CacheVersion(v), nil
		}
		if err == redis.Nil {
			// SetNX keeps a version bumped concurrently
			if ok, err := c.client.SetNX(ctx, CatalogVersionKey, 1, 0).Result(); err == nil && ok {
				return 1, nil
			}
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(50 * time.Millisecond)
		}
	}

	return 0, fmt.Errorf("failed to get catalog cache version after %d retries", maxRetries)
}

func (c *RedisCatalogCache) versionedKey(version CacheVersion, key string) string {
	return fmt.Sprintf("%s%d:%s", catalogKeyPrefix, version, key)
}

// NoopCatalogCache never caches.
type NoopCatalogCache struct{}

func (NoopCatalogCache) Get(context.Context, string, any) (CacheVersion, bool) { return 0, false }
func (NoopCatalogCache) SetAsync(CacheVersion, string, any) {}
func (NoopCatalogCache) Invalidate(context.Context) error { return nil }
