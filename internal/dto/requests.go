package dto

// RegisterRequest represents a signup request. ReferralCode is optional; a
// supplied code that does not resolve rejects the signup.
type RegisterRequest struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	ReferralCode string `json:"referral_code"`
	DeviceToken  string `json:"device_token"`
	DeviceType   string `json:"device_type"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DeviceToken string `json:"device_token"`
	DeviceType  string `json:"device_type"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ForgotPasswordRequest represents a password reset issuance request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents a password reset redemption request
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UpdateProfileRequest represents a partial profile update. Either field may
// be omitted; an empty field keeps its previous value. The profile picture
// may also arrive as a multipart file instead of a URL.
type UpdateProfileRequest struct {
	Bio        string `json:"bio"`
	ProfilePic string `json:"profile_pic"`
}

// CreateCustomerRequest represents a payment customer creation request
type CreateCustomerRequest struct {
	Name string `json:"name"`
}

// AddCardRequest attaches a card from a provider card token (e.g. tok_visa)
type AddCardRequest struct {
	CardToken string `json:"card_token" binding:"required"`
}

// ChargeRequest charges a previously stored card
type ChargeRequest struct {
	CardID   string `json:"card_id" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Currency string `json:"currency"`
}

// QueueMessageRequest publishes an arbitrary message to the queue
type QueueMessageRequest struct {
	Message string `json:"message" binding:"required"`
}
