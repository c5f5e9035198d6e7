package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mpetrovskiy/reward-service/internal/domain"
	"github.com/mpetrovskiy/reward-service/internal/repository"
	"go.uber.org/zap"
)

// PushPayload is the message published to the queue for asynchronous
// notification fan-out. A downstream worker resolves delivery.
type PushPayload struct {
	UserID       string   `json:"user_id"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	DeviceTokens []string `json:"device_tokens"`
	Timestamp    int64    `json:"timestamp"`
}

// notifier delivers email directly and pushes device notifications through
// the queue. Failures are logged and swallowed: notifications sit outside
// the reward transaction boundary and must never affect its outcome.
type notifier struct {
	mailer       Mailer
	queue        QueuePublisher
	deviceTokens repository.DeviceTokenRepository
	frontendURL  string
	logger       *zap.Logger
}

// NewNotifier creates a notifier.
func NewNotifier(mailer Mailer, queue QueuePublisher, deviceTokens repository.DeviceTokenRepository, frontendURL string, logger *zap.Logger) Notifier {
	return &notifier{
		mailer:       mailer,
		queue:        queue,
		deviceTokens: deviceTokens,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

// Welcome sends the onboarding email to a new user.
func (n *notifier) Welcome(ctx context.Context, user *domain.User) {
	body := fmt.Sprintf(
		"Hello %s,\n\nWelcome aboard! Your account is ready and your referral code is %s.\n",
		user.FirstName, user.ReferralCode,
	)
	if err := n.mailer.Send(user.Email, "Welcome to our platform!", body); err != nil {
		n.logger.Warn("failed to send welcome email",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
}

// PasswordReset emails the reset link for a freshly issued reset token.
func (n *notifier) PasswordReset(ctx context.Context, user *domain.User, resetToken string) {
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received a request to reset your password. Open the link below to choose a new one:\n\n%s/reset-password?token=%s\n\nIf you didn't request this, you can ignore this email.\n",
		user.FirstName, n.frontendURL, resetToken,
	)
	if err := n.mailer.Send(user.Email, "Password Reset Request", body); err != nil {
		n.logger.Warn("failed to send password reset email",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
}

// ActivityRecorded fans a push notification out through the queue to every
// device the user registered.
func (n *notifier) ActivityRecorded(ctx context.Context, user *domain.User, title, body string) {
	tokens, err := n.deviceTokens.ListByUser(ctx, user.ID)
	if err != nil {
		n.logger.Warn("failed to list device tokens",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return
	}
	if len(tokens) == 0 {
		return
	}

	payload := PushPayload{
		UserID:    user.ID,
		Title:     title,
		Body:      body,
		Timestamp: time.Now().Unix(),
	}
	for _, t := range tokens {
		payload.DeviceTokens = append(payload.DeviceTokens, t.DeviceToken)
	}

	if _, err := n.queue.Send(ctx, payload); err != nil {
		n.logger.Warn("failed to enqueue push notification",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
}
