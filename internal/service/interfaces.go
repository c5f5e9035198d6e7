package service

import (
	"context"
	"io"
	"time"

	"github.com/mpetrovskiy/reward-service/internal/domain"
	"github.com/mpetrovskiy/reward-service/internal/dto"
	"github.com/mpetrovskiy/reward-service/internal/repository"
	"github.com/mpetrovskiy/reward-service/pkg/payment"
)

// AuthService defines the account lifecycle operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, userID, token string) error
	ChangePassword(ctx context.Context, userID, token string, req *dto.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID, bio, profilePicURL string) (*dto.ProfileResponse, error)
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// ActivityService defines read-only ledger reporting
type ActivityService interface {
	GetUserActivity(ctx context.Context, userID string) (*dto.ActivityResponse, error)
}

// PaymentService defines payment provider operations
type PaymentService interface {
	CreateCustomer(ctx context.Context, userID string, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	AttachCard(ctx context.Context, userID string, req *dto.AddCardRequest) (*dto.CardResponse, error)
	Charge(ctx context.Context, userID string, req *dto.ChargeRequest) (*dto.ChargeResponse, error)
}

// Transactor runs a function inside one database transaction.
type Transactor interface {
	Transact(ctx context.Context, fn func(tx *repository.Repositories) error) error
}

// TokenBlacklist revokes issued tokens until they expire on their own.
type TokenBlacklist interface {
	AddToken(ctx context.Context, token string, expiry time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// PaymentGateway is the opaque payment provider contract.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, name, email string) (string, error)
	AttachCard(ctx context.Context, customerID, cardToken string) (*payment.CardDetails, error)
	Charge(ctx context.Context, customerID, paymentMethodID string, amount int64, currency string) (*payment.ChargeResult, error)
}

// ObjectStorage stores uploaded files and returns their URLs.
type ObjectStorage interface {
	Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// QueuePublisher publishes messages for asynchronous fan-out.
type QueuePublisher interface {
	Send(ctx context.Context, payload any) (string, error)
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(to, subject, body string) error
}

// Notifier dispatches user-facing notifications. Delivery failures are
// logged, never returned; dispatch always happens after the reward
// transaction committed.
type Notifier interface {
	Welcome(ctx context.Context, user *domain.User)
	PasswordReset(ctx context.Context, user *domain.User, resetToken string)
	ActivityRecorded(ctx context.Context, user *domain.User, title, body string)
}
