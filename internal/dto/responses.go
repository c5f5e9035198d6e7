package dto

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo represents user information in an auth response
type UserInfo struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Coins        int    `json:"coins"`
	ReferralCode string `json:"referral_code"`
	LoginCount   int    `json:"login_count"`
}

// UserResponse represents the full profile + reward state of a user
type UserResponse struct {
	ID                string  `json:"id"`
	Email             string  `json:"email"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Coins             int     `json:"coins"`
	ReferralCode      string  `json:"referral_code"`
	ReferredCount     int     `json:"referred_count"`
	ConsecutiveLogins int     `json:"consecutive_logins"`
	LoginCount        int     `json:"login_count"`
	LastLoginDate     *string `json:"last_login_date"`
	Bio               string  `json:"bio"`
	ProfilePic        string  `json:"profile_pic"`
	IsProfileComplete bool    `json:"is_profile_complete"`
	CreatedAt         string  `json:"created_at"`
}

// ProfileResponse represents the outcome of a profile update
type ProfileResponse struct {
	Bio               string `json:"bio"`
	ProfilePic        string `json:"profile_pic"`
	IsProfileComplete bool   `json:"is_profile_complete"`
	Coins             int    `json:"coins"`
}

// ActivityEntry is one ledger entry in an activity report
type ActivityEntry struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CoinsEarned int    `json:"coins_earned"`
	CreatedAt   string `json:"created_at"`
}

// ActivityResponse aggregates a user's activity ledger
type ActivityResponse struct {
	TotalCoins       int             `json:"total_coins"`
	AchievementCount int             `json:"achievement_count"`
	Activities       []ActivityEntry `json:"activities"`
}

// CustomerResponse reports the created payment customer
type CustomerResponse struct {
	StripeCustomerID string `json:"stripe_customer_id"`
}

// CardResponse represents a stored card
type CardResponse struct {
	ID       string `json:"id"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	Brand    string `json:"brand"`
}

// ChargeResponse reports the provider outcome of a charge
type ChargeResponse struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	ClientSecret  string `json:"client_secret,omitempty"`
}

// UploadResponse reports a stored object URL
type UploadResponse struct {
	FileURL string `json:"file_url"`
}

// QueueMessageResponse reports a published message id
type QueueMessageResponse struct {
	MessageID string `json:"message_id"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
