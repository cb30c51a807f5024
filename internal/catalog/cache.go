package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bistro-pos/internal/domain"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache holds a snapshot of the whole catalog
type Cache interface {
	Get(ctx context.Context) ([]domain.CatalogItem, error)
	Set(ctx context.Context, items []domain.CatalogItem) error
	Invalidate(ctx context.Context) error
}

const catalogCacheKey = "catalog:items"

// RedisCache stores the catalog snapshot as JSON in Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache whose entries expire after ttl
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context) ([]domain.CatalogItem, error) {
	data, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []domain.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return items, nil
}

func (c *RedisCache) Set(ctx context.Context, items []domain.CatalogItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}
	if err := c.client.Set(ctx, catalogCacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
