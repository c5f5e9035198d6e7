package domain

import "time"

// User represents an account together with its reward state.
type User struct {
	ID           string `json:"id" db:"id"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`

	// Reward state. Coins never go below zero; nothing in this service
	// spends them.
	Coins             int        `json:"coins" db:"coins"`
	ReferralCode      string     `json:"referral_code" db:"referral_code"`
	ReferredBy        *string    `json:"referred_by" db:"referred_by"`
	ReferredCount     int        `json:"referred_count" db:"referred_count"`
	ConsecutiveLogins int        `json:"consecutive_logins" db:"consecutive_logins"`
	LastLoginDate     *time.Time `json:"last_login_date" db:"last_login_date"`
	LoginCount        int        `json:"login_count" db:"login_count"`

	// Profile state. IsProfileComplete flips false->true at most once.
	Bio               string `json:"bio" db:"bio"`
	ProfilePic        string `json:"profile_pic" db:"profile_pic"`
	IsProfileComplete bool   `json:"is_profile_complete" db:"is_profile_complete"`

	// Session and recovery state.
	ActiveToken      *string    `json:"-" db:"active_token"`
	ResetToken       *string    `json:"-" db:"reset_token"`
	ResetTokenExpiry *time.Time `json:"-" db:"reset_token_expiry"`

	StripeCustomerID *string `json:"-" db:"stripe_customer_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
