// Package cache keeps a short-lived Redis snapshot of the homepage payload
// so anonymous traffic does not hit MongoDB on every hit.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	"github.com/redis/go-redis/v9"
)

const (
	homeKey = "home:snapshot"
	homeTTL = 60 * time.Second
)

type HomeCache struct {
	client *redis.Client
}

func NewHomeCache(addr string) (*HomeCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &HomeCache{client: client}, nil
}

// Get returns the cached payload, or (nil, nil) on a miss.
func (c *HomeCache) Get(ctx context.Context) (*domain.HomePage, error) {
	data, err := c.client.Get(ctx, homeKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var page domain.HomePage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HomeCache) Set(ctx context.Context, page *domain.HomePage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, homeKey, data, homeTTL).Err()
}

// Invalidate drops the snapshot after a listing mutation.
func (c *HomeCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, homeKey).Err()
}
