package domain

import "time"

// Card stores a payment card attached to a user's Stripe customer, plus the
// metadata of the most recent charge attempt. The payment provider is the
// system of record for financial state; this service only mirrors what the
// provider returned.
type Card struct {
	ID           string `json:"id" db:"id"`
	UserID       string `json:"user_id" db:"user_id"`
	StripeCardID string `json:"stripe_card_id" db:"stripe_card_id"`
	Last4        string `json:"last4" db:"last4"`
	ExpMonth     int    `json:"exp_month" db:"exp_month"`
	ExpYear      int    `json:"exp_year" db:"exp_year"`
	Brand        string `json:"brand" db:"brand"`

	// Last charge attempt, failed ones included.
	TransactionID *string `json:"transaction_id" db:"transaction_id"`
	Amount        *int64  `json:"amount" db:"amount"`
	Status        *string `json:"status" db:"status"`
	ClientSecret  *string `json:"-" db:"client_secret"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NotificationToken is a per-device push token registered by a client.
type NotificationToken struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	DeviceToken string    `json:"device_token" db:"device_token"`
	DeviceType  string    `json:"device_type" db:"device_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
