package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mpetrovskiy/reward-service/internal/domain"
	"github.com/mpetrovskiy/reward-service/internal/dto"
	"github.com/mpetrovskiy/reward-service/internal/repository"
)

type activityService struct {
	repos *repository.Repositories
}

// NewActivityService creates a new activity service
func NewActivityService(repos *repository.Repositories) ActivityService {
	return &activityService{repos: repos}
}

// GetUserActivity returns the user's full reward ledger together with the
// earned-coin total and achievement count.
func (s *activityService) GetUserActivity(ctx context.Context, userID string) (*dto.ActivityResponse, error) {
	if _, err := s.repos.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	totalCoins, err := s.repos.Activity.SumCoinsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum earned coins: %w", err)
	}

	achievements, err := s.repos.Activity.CountByUserAndType(ctx, userID, domain.ActivityAchievement)
	if err != nil {
		return nil, fmt.Errorf("failed to count achievements: %w", err)
	}

	activities, err := s.repos.Activity.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	entries := make([]dto.ActivityEntry, 0, len(activities))
	for _, a := range activities {
		entries = append(entries, dto.ActivityEntry{
			Type:        string(a.Type),
			Description: a.Description,
			CoinsEarned: a.CoinsEarned,
			CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ActivityResponse{
		TotalCoins:       totalCoins,
		AchievementCount: achievements,
		Activities:       entries,
	}, nil
}
