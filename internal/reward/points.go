package reward

// Coin grants per event type.
const (
	// BaseCoins is the starting balance of every new account.
	BaseCoins = 100

	// DailyLoginBonus is granted on the first login of a calendar day.
	DailyLoginBonus = 10

	// ReferralBonus is granted to both sides of a successful referral.
	ReferralBonus = 50

	// ProfileCompletionBonus is granted once, when bio and profile picture
	// are both set for the first time.
	ProfileCompletionBonus = 30

	// EarlyBirdBonus is granted when the login streak reaches
	// EarlyBirdStreak, after which the streak restarts.
	EarlyBirdBonus = 10

	// NetworkerBonus is granted when the referral count reaches exactly
	// NetworkerThreshold.
	NetworkerBonus = 50
)

// Achievement thresholds.
const (
	EarlyBirdStreak    = 3
	NetworkerThreshold = 5
)
