package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/ejurnal-backend/internal/config"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// StatsCache stores the principal's headline statistics per calendar day.
type StatsCache struct {
	rdb *redis.Client
}

// NewStatsCache creates a StatsCache.
func NewStatsCache(rdb *redis.Client) *StatsCache {
	return &StatsCache{rdb: rdb}
}

// GetStats returns the cached statistics for day, or nil on a miss.
func (c *StatsCache) GetStats(ctx context.Context, day model.Date) (*model.HeadlineStats, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.HeadlineStatsKey(day.String())).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stats: %w", err)
	}

	var stats model.HeadlineStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &stats, nil
}

// SetStats caches stats for day until ttl elapses.
func (c *StatsCache) SetStats(ctx context.Context, day model.Date, stats *model.HeadlineStats, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return c.rdb.Set(ctx, config.CacheKey.HeadlineStatsKey(day.String()), raw, ttl).Err()
}

// InvalidateStats drops the cached statistics for day.
func (c *StatsCache) InvalidateStats(ctx context.Context, day model.Date) error {
	return c.rdb.Del(ctx, config.CacheKey.HeadlineStatsKey(day.String())).Err()
}
