package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

// TraderCache implements cache.Cache on Redis. Each result is stored as a
// JSON blob at key "toptraders:{chainId:tokenAddress}" with a key TTL, so
// expiry is handled by Redis itself rather than lazy eviction.
type TraderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTraderCache creates a TraderCache backed by the given Client.
func NewTraderCache(c *Client, ttl time.Duration) *TraderCache {
	return &TraderCache{rdb: c.Underlying(), ttl: ttl}
}

func traderKey(key string) string {
	return "toptraders:" + key
}

// Get returns the cached result for key, or ok=false when absent or expired.
func (tc *TraderCache) Get(ctx context.Context, key string) (*domain.Result, bool, error) {
	data, err := tc.rdb.Get(ctx, traderKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis: get traders %s: %w", key, err)
	}

	var res domain.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false, fmt.Errorf("redis: decode traders %s: %w", key, err)
	}

	return &res, true, nil
}

// Set stores the result under key with the configured TTL.
func (tc *TraderCache) Set(ctx context.Context, key string, res *domain.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("redis: encode traders %s: %w", key, err)
	}
	if err := tc.rdb.Set(ctx, traderKey(key), data, tc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set traders %s: %w", key, err)
	}
	return nil
}
