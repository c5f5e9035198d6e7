package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mpetrovskiy/reward-service/pkg/database"
	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a sliding window log over Redis sorted sets.
type RateLimiter struct {
	redis *database.Redis
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Allow checks whether a request identified by key fits the limit. When the
// limit is exceeded it also reports how long until the next request would be
// allowed.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	now := time.Now()
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	// Drop entries that slid out of the window.
	windowStart := now.Add(-window)
	if err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.Unix())).Err(); err != nil {
		return false, 0, fmt.Errorf("failed to clean old entries: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	if count >= int64(limit) {
		retryAfter := window
		oldest, err := r.redis.Client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		if err == nil && len(oldest) > 0 {
			retryAfter = window - time.Since(time.Unix(int64(oldest[0].Score), 0))
		}
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter, nil
	}

	member := fmt.Sprintf("%d", now.UnixNano())
	if err := r.redis.Client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.Unix()),
		Member: member,
	}).Err(); err != nil {
		return false, 0, fmt.Errorf("failed to add entry: %w", err)
	}

	// Keep the key from lingering after traffic stops.
	_ = r.redis.Client.Expire(ctx, redisKey, window+time.Minute).Err()

	return true, 0, nil
}
