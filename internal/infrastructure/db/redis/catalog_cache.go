package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

const keyCatalogList = "catalog:list"

// CatalogCache caches the full product list as JSON under a single key.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// GetList returns the cached list, or nil on a miss.
func (c *CatalogCache) GetList(ctx context.Context) ([]*domain.Product, error) {
	b, err := c.client.Get(ctx, keyCatalogList).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []*domain.Product{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *CatalogCache) SetList(ctx context.Context, list []*domain.Product) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyCatalogList, b, c.ttl).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, keyCatalogList).Err()
}
