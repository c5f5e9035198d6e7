package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateReferralCode is returned when a generated referral code
	// collides with an existing one
	ErrDuplicateReferralCode = errors.New("referral code already exists")
)
