package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mpetrovskiy/reward-service/internal/domain"
	"github.com/mpetrovskiy/reward-service/internal/dto"
	"github.com/mpetrovskiy/reward-service/internal/repository"
	"github.com/mpetrovskiy/reward-service/internal/reward"
	"github.com/mpetrovskiy/reward-service/internal/utils"
	"github.com/mpetrovskiy/reward-service/pkg/observability"
	"go.uber.org/zap"
)

// authService implements AuthService. Every reward-granting event runs as
// one transaction against a row-locked user record, so concurrent events on
// the same user cannot double-grant.
type authService struct {
	repos         *repository.Repositories
	tx            Transactor
	jwtManager    *utils.JWTManager
	blacklist     TokenBlacklist
	notifier      Notifier
	metrics       *observability.RewardMetrics
	bcryptCost    int
	resetTokenTTL time.Duration
	logger        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	repos *repository.Repositories,
	tx Transactor,
	jwtManager *utils.JWTManager,
	blacklist TokenBlacklist,
	notifier Notifier,
	metrics *observability.RewardMetrics,
	bcryptCost int,
	resetTokenTTL time.Duration,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repos:         repos,
		tx:            tx,
		jwtManager:    jwtManager,
		blacklist:     blacklist,
		notifier:      notifier,
		metrics:       metrics,
		bcryptCost:    bcryptCost,
		resetTokenTTL: resetTokenTTL,
		logger:        logger,
	}
}

// Register signs a new user up. When a referral code is supplied it must
// resolve to an existing user before anything is written; both sides of the
// referral are then credited inside the same transaction that creates the
// new account.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if !utils.ValidateName(req.FirstName) || !utils.ValidateName(req.LastName) {
		return nil, fmt.Errorf("first and last name must be at least 2 characters: %w", ErrValidation)
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, fmt.Errorf("invalid email format: %w", ErrValidation)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("password must be at least 8 characters with uppercase, lowercase, number and special character: %w", ErrValidation)
	}
	if req.ReferralCode != "" && !utils.ValidateReferralCodeFormat(req.ReferralCode) {
		return nil, fmt.Errorf("referral code must be 6-12 characters: %w", ErrValidation)
	}

	email := utils.SanitizeEmail(req.Email)

	_, err := s.repos.User.GetByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("user with email %s already registered: %w", email, ErrConflict)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	referralCode, err := utils.GenerateReferralCode(ctx, req.FirstName, s.repos.User.ReferralCodeExists)
	if err != nil {
		return nil, fmt.Errorf("failed to generate referral code: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: passwordHash,
		Coins:        reward.BaseCoins,
		ReferralCode: referralCode,
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	user.ActiveToken = &token

	var (
		referrer *domain.User
		entries  []reward.Entry
	)

	err = s.tx.Transact(ctx, func(tx *repository.Repositories) error {
		if req.ReferralCode != "" {
			// Resolve and lock the referrer before creating anything, so an
			// invalid code rejects the signup with no state mutated.
			var txErr error
			referrer, txErr = tx.User.GetByReferralCodeForUpdate(ctx, req.ReferralCode)
			if errors.Is(txErr, repository.ErrNotFound) {
				return fmt.Errorf("invalid referral code: %w", ErrConflict)
			}
			if txErr != nil {
				return txErr
			}

			entries = reward.ApplyReferral(user, referrer)
			user.ReferredBy = &referrer.ID
		}

		if err := tx.User.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return fmt.Errorf("user with email %s already registered: %w", email, ErrConflict)
			}
			return err
		}

		if referrer != nil {
			if err := tx.User.Update(ctx, referrer); err != nil {
				return err
			}
			if err := appendLedger(ctx, tx, referrer.ID, entries); err != nil {
				return err
			}
		}

		if req.DeviceToken != "" && req.DeviceType != "" {
			return tx.DeviceToken.Upsert(ctx, &domain.NotificationToken{
				UserID:      user.ID,
				DeviceToken: req.DeviceToken,
				DeviceType:  req.DeviceType,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordEntries(ctx, entries)
	s.notifier.Welcome(ctx, user)
	if referrer != nil {
		for _, e := range entries {
			s.notifier.ActivityRecorded(ctx, referrer, "New Activity", e.Description)
		}
	}

	return s.authResponse(token, user), nil
}

// Login authenticates the user and applies the daily login reward policy
// against the freshly locked row.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repos.User.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	var (
		current *domain.User
		entries []reward.Entry
	)

	err = s.tx.Transact(ctx, func(tx *repository.Repositories) error {
		var txErr error
		current, txErr = tx.User.GetByIDForUpdate(ctx, user.ID)
		if txErr != nil {
			return txErr
		}

		entries = reward.ApplyDailyLogin(current, time.Now().UTC())
		current.ActiveToken = &token

		if err := tx.User.Update(ctx, current); err != nil {
			return err
		}
		if err := appendLedger(ctx, tx, current.ID, entries); err != nil {
			return err
		}

		if req.DeviceToken != "" && req.DeviceType != "" {
			return tx.DeviceToken.Upsert(ctx, &domain.NotificationToken{
				UserID:      current.ID,
				DeviceToken: req.DeviceToken,
				DeviceType:  req.DeviceType,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordEntries(ctx, entries)
	for _, e := range entries {
		s.notifier.ActivityRecorded(ctx, current, "New Activity", e.Description)
	}

	return s.authResponse(token, current), nil
}

// Logout revokes the presented token and clears the active token.
func (s *authService) Logout(ctx context.Context, userID, token string) error {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	if err := s.blacklist.AddToken(ctx, token, claims.RemainingTTL()); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return s.tx.Transact(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("user not found: %w", ErrNotFound)
			}
			return err
		}
		user.ActiveToken = nil
		return tx.User.Update(ctx, user)
	})
}

// ChangePassword verifies the previous credential before replacing it, then
// revokes the token that authorized the change so the caller has to log in
// again.
func (s *authService) ChangePassword(ctx context.Context, userID, token string, req *dto.ChangePasswordRequest) error {
	if !utils.ValidatePassword(req.NewPassword) {
		return fmt.Errorf("new password must be at least 8 characters with uppercase, lowercase, number and special character: %w", ErrValidation)
	}

	err := s.tx.Transact(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("user not found: %w", ErrNotFound)
			}
			return err
		}

		if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
			return fmt.Errorf("incorrect old password: %w", ErrUnauthorized)
		}

		hash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user.PasswordHash = hash
		user.ActiveToken = nil
		return tx.User.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	if claims, err := s.jwtManager.ValidateToken(token); err == nil {
		if err := s.blacklist.AddToken(ctx, token, claims.RemainingTTL()); err != nil {
			s.logger.Warn("failed to blacklist token after password change",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// ForgotPassword issues a single-use reset token valid for a fixed window
// and emails it to the user.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	if !utils.ValidateEmail(email) {
		return fmt.Errorf("invalid email format: %w", ErrValidation)
	}

	user, err := s.repos.User.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	resetToken := uuid.New().String()
	expiry := time.Now().Add(s.resetTokenTTL)

	err = s.tx.Transact(ctx, func(tx *repository.Repositories) error {
		current, err := tx.User.GetByIDForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		current.ResetToken = &resetToken
		current.ResetTokenExpiry = &expiry
		return tx.User.Update(ctx, current)
	})
	if err != nil {
		return err
	}

	s.notifier.PasswordReset(ctx, user, resetToken)
	return nil
}

// ResetPassword redeems a reset token. The token and its expiry are cleared
// whatever the outcome, so a token can never be replayed.
func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if !utils.ValidatePassword(req.NewPassword) {
		return fmt.Errorf("new password must be at least 8 characters with uppercase, lowercase, number and special character: %w", ErrValidation)
	}

	var expired bool

	err := s.tx.Transact(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByResetTokenForUpdate(ctx, req.Token)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("invalid or already used reset token: %w", ErrUnauthorized)
			}
			return err
		}

		expired = user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry)

		user.ResetToken = nil
		user.ResetTokenExpiry = nil

		if expired {
			// Still commit, so the token cannot be retried.
			return tx.User.Update(ctx, user)
		}

		hash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
		return tx.User.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	if expired {
		return fmt.Errorf("reset token expired: %w", ErrUnauthorized)
	}

	return nil
}

// GetUser returns the user's profile and reward state.
func (s *authService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	response := &dto.UserResponse{
		ID:                user.ID,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Coins:             user.Coins,
		ReferralCode:      user.ReferralCode,
		ReferredCount:     user.ReferredCount,
		ConsecutiveLogins: user.ConsecutiveLogins,
		LoginCount:        user.LoginCount,
		Bio:               user.Bio,
		ProfilePic:        user.ProfilePic,
		IsProfileComplete: user.IsProfileComplete,
		CreatedAt:         user.CreatedAt.Format(time.RFC3339),
	}

	if user.LastLoginDate != nil {
		lastLogin := user.LastLoginDate.Format(time.RFC3339)
		response.LastLoginDate = &lastLogin
	}

	return response, nil
}

// UpdateProfile applies a partial profile update and grants the one-time
// completion reward when both fields first become non-empty.
func (s *authService) UpdateProfile(ctx context.Context, userID, bio, profilePicURL string) (*dto.ProfileResponse, error) {
	var (
		user    *domain.User
		entries []reward.Entry
	)

	err := s.tx.Transact(ctx, func(tx *repository.Repositories) error {
		var txErr error
		user, txErr = tx.User.GetByIDForUpdate(ctx, userID)
		if txErr != nil {
			if errors.Is(txErr, repository.ErrNotFound) {
				return fmt.Errorf("user not found: %w", ErrNotFound)
			}
			return txErr
		}

		entries = reward.ApplyProfileUpdate(user, bio, profilePicURL)

		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		return appendLedger(ctx, tx, user.ID, entries)
	})
	if err != nil {
		return nil, err
	}

	s.recordEntries(ctx, entries)
	for _, e := range entries {
		s.notifier.ActivityRecorded(ctx, user, "New Activity", e.Description)
	}

	return &dto.ProfileResponse{
		Bio:               user.Bio,
		ProfilePic:        user.ProfilePic,
		IsProfileComplete: user.IsProfileComplete,
		Coins:             user.Coins,
	}, nil
}

// ValidateToken validates an access token against the blacklist and its
// signature/expiry.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	isBlacklisted, err := s.blacklist.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if isBlacklisted {
		return nil, fmt.Errorf("token is blacklisted: %w", ErrUnauthorized)
	}

	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	return claims, nil
}

// appendLedger inserts one activity row per policy entry, inside the
// caller's transaction.
func appendLedger(ctx context.Context, tx *repository.Repositories, userID string, entries []reward.Entry) error {
	for _, e := range entries {
		activity := &domain.Activity{
			UserID:      userID,
			Type:        e.Type,
			Description: e.Description,
			CoinsEarned: e.Coins,
		}
		if err := tx.Activity.Create(ctx, activity); err != nil {
			return err
		}
	}
	return nil
}

func (s *authService) authResponse(token string, user *domain.User) *dto.AuthResponse {
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtManager.GetAccessTokenExpiry(),
		User: dto.UserInfo{
			ID:           user.ID,
			Email:        user.Email,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			Coins:        user.Coins,
			ReferralCode: user.ReferralCode,
			LoginCount:   user.LoginCount,
		},
	}
}

func (s *authService) recordEntries(ctx context.Context, entries []reward.Entry) {
	for _, e := range entries {
		s.metrics.RecordAward(ctx, string(e.Type), e.Coins)
	}
}
