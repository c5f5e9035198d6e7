package domain

import "time"

// ActivityType classifies a ledger entry.
type ActivityType string

const (
	ActivityDailyLogin    ActivityType = "daily_login"
	ActivityReferral      ActivityType = "referral"
	ActivityProfileUpdate ActivityType = "profile_update"
	ActivityAchievement   ActivityType = "achievement"
)

// Activity is an immutable ledger entry recording one reward-granting event.
// Entries are only ever appended; they are removed solely as a cascade of
// user deletion.
type Activity struct {
	ID          string       `json:"id" db:"id"`
	UserID      string       `json:"user_id" db:"user_id"`
	Type        ActivityType `json:"type" db:"type"`
	Description string       `json:"description" db:"description"`
	CoinsEarned int          `json:"coins_earned" db:"coins_earned"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}
