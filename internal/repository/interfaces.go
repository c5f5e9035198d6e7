package repository

import (
	"context"

	"github.com/mpetrovskiy/reward-service/internal/domain"
)

// UserRepository defines methods for user operations. The ForUpdate variants
// take a row lock and must run inside a transaction; they serialize all
// reward-state mutations for one user.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.User, error)
	GetByReferralCodeForUpdate(ctx context.Context, code string) (*domain.User, error)
	GetByResetTokenForUpdate(ctx context.Context, token string) (*domain.User, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
}

// ActivityRepository defines methods for the append-only activity ledger.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Activity, error)
	SumCoinsByUser(ctx context.Context, userID string) (int, error)
	CountByUserAndType(ctx context.Context, userID string, activityType domain.ActivityType) (int, error)
}

// CardRepository defines methods for stored cards and their transaction metadata.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, id string) (*domain.Card, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Card, error)
	UpdateTransaction(ctx context.Context, card *domain.Card) error
}

// DeviceTokenRepository defines methods for push notification device tokens.
type DeviceTokenRepository interface {
	Upsert(ctx context.Context, token *domain.NotificationToken) error
	ListByUser(ctx context.Context, userID string) ([]*domain.NotificationToken, error)
}
