package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mpetrovskiy/reward-service/pkg/database"
)

// TokenBlacklistService keeps revoked tokens in Redis. Each entry carries a
// TTL equal to the remaining token lifetime, so the blacklist prunes itself
// instead of growing without bound.
type TokenBlacklistService struct {
	redis *database.Redis
}

var _ TokenBlacklist = (*TokenBlacklistService)(nil)

// NewTokenBlacklistService creates a new token blacklist service
func NewTokenBlacklistService(redis *database.Redis) *TokenBlacklistService {
	return &TokenBlacklistService{redis: redis}
}

// AddToken adds a token to the blacklist
func (s *TokenBlacklistService) AddToken(ctx context.Context, token string, expiry time.Duration) error {
	if expiry <= 0 {
		// Already expired; nothing to revoke.
		return nil
	}
	key := fmt.Sprintf("blacklist:token:%s", token)
	if err := s.redis.Client.Set(ctx, key, "1", expiry).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func (s *TokenBlacklistService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:token:%s", token)
	exists, err := s.redis.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}
