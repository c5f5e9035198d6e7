package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mpetrovskiy/reward-service/internal/domain"
)

// deviceTokenRepository implements DeviceTokenRepository interface
type deviceTokenRepository struct {
	q Querier
}

// NewDeviceTokenRepository creates a new device token repository
func NewDeviceTokenRepository(q Querier) DeviceTokenRepository {
	return &deviceTokenRepository{q: q}
}

// Upsert registers a device token for a user, updating the device type when
// the token is already known.
func (r *deviceTokenRepository) Upsert(ctx context.Context, token *domain.NotificationToken) error {
	query := `
		INSERT INTO notification_tokens (id, user_id, device_token, device_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, device_token)
		DO UPDATE SET device_type = EXCLUDED.device_type
	`

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := r.q.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.DeviceToken,
		token.DeviceType,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}

	return nil
}

// ListByUser returns all device tokens registered for a user.
func (r *deviceTokenRepository) ListByUser(ctx context.Context, userID string) ([]*domain.NotificationToken, error) {
	query := `
		SELECT id, user_id, device_token, device_type, created_at
		FROM notification_tokens
		WHERE user_id = $1
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*domain.NotificationToken
	for rows.Next() {
		t := &domain.NotificationToken{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.DeviceToken, &t.DeviceType, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device tokens: %w", err)
	}

	return tokens, nil
}
