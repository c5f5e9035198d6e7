package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mpetrovskiy/reward-service/internal/domain"
)

// activityRepository implements ActivityRepository. The ledger is
// append-only: entries are inserted and read, never updated or deleted.
type activityRepository struct {
	q Querier
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(q Querier) ActivityRepository {
	return &activityRepository{q: q}
}

// Create appends a ledger entry.
func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	query := `
		INSERT INTO activities (id, user_id, type, description, coins_earned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	_, err := r.q.ExecContext(ctx, query,
		activity.ID,
		activity.UserID,
		activity.Type,
		activity.Description,
		activity.CoinsEarned,
		activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// ListByUser returns a user's ledger entries, most recent first.
func (r *activityRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Activity, error) {
	query := `
		SELECT id, user_id, type, description, coins_earned, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		a := &domain.Activity{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Description, &a.CoinsEarned, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return activities, nil
}

// SumCoinsByUser returns the total coins earned across a user's ledger,
// zero when the ledger is empty.
func (r *activityRepository) SumCoinsByUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(coins_earned), 0) FROM activities WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum coins: %w", err)
	}
	return total, nil
}

// CountByUserAndType returns the number of entries of one type for a user.
func (r *activityRepository) CountByUserAndType(ctx context.Context, userID string, activityType domain.ActivityType) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activities WHERE user_id = $1 AND type = $2`, userID, activityType,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}
