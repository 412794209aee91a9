package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"shopcheck/internal/model"
)

// StatsCache keeps aggregated analytics warm between admin views so the
// dashboard does not re-run the mongo aggregations on every open.
type StatsCache interface {
	SetShopMonthly(ctx context.Context, month string, stats []model.ShopMonthlyStat) error
	GetShopMonthly(ctx context.Context, month string) ([]model.ShopMonthlyStat, error)
	Invalidate(ctx context.Context, month string) error
}

type statsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

func shopMonthlyKey(month string) string {
	return "stats:shops:" + month
}

func (c *statsCache) SetShopMonthly(ctx context.Context, month string, stats []model.ShopMonthlyStat) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, shopMonthlyKey(month), data, c.ttl).Err()
}

func (c *statsCache) GetShopMonthly(ctx context.Context, month string) ([]model.ShopMonthlyStat, error) {
	data, err := c.client.Get(ctx, shopMonthlyKey(month)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats []model.ShopMonthlyStat
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *statsCache) Invalidate(ctx context.Context, month string) error {
	return c.client.Del(ctx, shopMonthlyKey(month)).Err()
}
