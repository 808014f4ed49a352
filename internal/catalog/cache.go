package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/example/storefront/internal/domain/product"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// SnapshotCache caches the full product list under a single key. Search
// results are filtered from the snapshot rather than cached per-query.
type SnapshotCache interface {
	Get(ctx context.Context) ([]product.Product, error)
	Set(ctx context.Context, products []product.Product) error
	Delete(ctx context.Context) error
}

const snapshotKey = "catalog:all"

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, baseTTL: baseTTL}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context) ([]product.Product, error) {
	data, err := r.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []product.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal catalog snapshot failed: %w", err)
	}
	return products, nil
}

func (r *RedisCache) Set(ctx context.Context, products []product.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal catalog snapshot failed: %w", err)
	}

	// Jitter the TTL so concurrent deployments don't expire the snapshot
	// at the same instant.
	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := r.client.Set(ctx, snapshotKey, data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
