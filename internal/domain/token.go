package domain

import "time"

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}

// RemainingTTL returns how long the token stays valid. Used to size the
// blacklist entry so revoked tokens expire from Redis together with the
// token itself.
func (tc TokenClaims) RemainingTTL() time.Duration {
	return time.Until(time.Unix(tc.Exp, 0))
}
