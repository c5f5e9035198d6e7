package service

import "errors"

// Error taxonomy surfaced to handlers. Services wrap these sentinels with
// %w plus detail; handlers translate them to HTTP statuses with errors.Is.
// Anything not matching a sentinel is treated as internal and never leaks
// detail to the caller.
var (
	// ErrValidation marks malformed input; no state was mutated.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks duplicate email or an unresolvable referral code.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized marks bad credentials or an invalid/expired/
	// blacklisted token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound marks an unknown user or card.
	ErrNotFound = errors.New("not found")

	// ErrExternalService marks a payment provider or storage failure.
	// Notification failures are never surfaced, only logged.
	ErrExternalService = errors.New("external service failure")
)
