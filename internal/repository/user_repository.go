package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mpetrovskiy/reward-service/internal/domain"
)

const userColumns = `
	id, first_name, last_name, email, password_hash,
	coins, referral_code, referred_by, referred_count,
	consecutive_logins, last_login_date, login_count,
	bio, profile_pic, is_profile_complete,
	active_token, reset_token, reset_token_expiry,
	stripe_customer_id, created_at, updated_at
`

// userRepository implements UserRepository interface
type userRepository struct {
	q Querier
}

// NewUserRepository creates a new user repository
func NewUserRepository(q Querier) UserRepository {
	return &userRepository{q: q}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, first_name, last_name, email, password_hash,
			coins, referral_code, referred_by, referred_count,
			consecutive_logins, last_login_date, login_count,
			bio, profile_pic, is_profile_complete,
			active_token, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Coins,
		user.ReferralCode,
		user.ReferredBy,
		user.ReferredCount,
		user.ConsecutiveLogins,
		user.LastLoginDate,
		user.LoginCount,
		nullIfEmpty(user.Bio),
		nullIfEmpty(user.ProfilePic),
		user.IsProfileComplete,
		user.ActiveToken,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			if pqErr.Constraint == "users_referral_code_key" {
				return fmt.Errorf("referral code %s taken: %w", user.ReferralCode, ErrDuplicateReferralCode)
			}
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := r.scanUser(r.q.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := r.scanUser(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByIDForUpdate retrieves a user by ID and locks the row for the duration
// of the surrounding transaction.
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user, err := r.scanUser(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock user by id: %w", err)
	}
	return user, nil
}

// GetByReferralCodeForUpdate retrieves the owner of a referral code and locks
// the row, serializing concurrent signups against the same referrer.
func (r *userRepository) GetByReferralCodeForUpdate(ctx context.Context, code string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1 FOR UPDATE`
	user, err := r.scanUser(r.q.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("referral code %s not found: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock user by referral code: %w", err)
	}
	return user, nil
}

// GetByResetTokenForUpdate retrieves the holder of a password reset token and
// locks the row, so a token can be redeemed at most once.
func (r *userRepository) GetByResetTokenForUpdate(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 FOR UPDATE`
	user, err := r.scanUser(r.q.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reset token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock user by reset token: %w", err)
	}
	return user, nil
}

// ReferralCodeExists reports whether a referral code is already assigned.
func (r *userRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE referral_code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check referral code: %w", err)
	}
	return exists, nil
}

// Update persists all mutable user fields.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET password_hash = $2,
			coins = $3,
			referred_count = $4,
			consecutive_logins = $5,
			last_login_date = $6,
			login_count = $7,
			bio = $8,
			profile_pic = $9,
			is_profile_complete = $10,
			active_token = $11,
			reset_token = $12,
			reset_token_expiry = $13,
			stripe_customer_id = $14,
			updated_at = $15
		WHERE id = $1
	`

	user.UpdatedAt = time.Now()

	result, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.PasswordHash,
		user.Coins,
		user.ReferredCount,
		user.ConsecutiveLogins,
		user.LastLoginDate,
		user.LoginCount,
		nullIfEmpty(user.Bio),
		nullIfEmpty(user.ProfilePic),
		user.IsProfileComplete,
		user.ActiveToken,
		user.ResetToken,
		user.ResetTokenExpiry,
		user.StripeCustomerID,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user with id %s not found: %w", user.ID, ErrNotFound)
	}

	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var (
		referredBy       sql.NullString
		lastLoginDate    sql.NullTime
		bio              sql.NullString
		profilePic       sql.NullString
		activeToken      sql.NullString
		resetToken       sql.NullString
		resetTokenExpiry sql.NullTime
		stripeCustomerID sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.Coins,
		&user.ReferralCode,
		&referredBy,
		&user.ReferredCount,
		&user.ConsecutiveLogins,
		&lastLoginDate,
		&user.LoginCount,
		&bio,
		&profilePic,
		&user.IsProfileComplete,
		&activeToken,
		&resetToken,
		&resetTokenExpiry,
		&stripeCustomerID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if referredBy.Valid {
		user.ReferredBy = &referredBy.String
	}
	if lastLoginDate.Valid {
		user.LastLoginDate = &lastLoginDate.Time
	}
	user.Bio = bio.String
	user.ProfilePic = profilePic.String
	if activeToken.Valid {
		user.ActiveToken = &activeToken.String
	}
	if resetToken.Valid {
		user.ResetToken = &resetToken.String
	}
	if resetTokenExpiry.Valid {
		user.ResetTokenExpiry = &resetTokenExpiry.Time
	}
	if stripeCustomerID.Valid {
		user.StripeCustomerID = &stripeCustomerID.String
	}

	return user, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
