package utils

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

// referral code attempts before giving up; collisions on a 4-digit suffix
// are rare enough that hitting this limit means something is wrong.
const maxReferralCodeAttempts = 10

var whitespaceRegex = regexp.MustCompile(`\s+`)

// GenerateReferralCode derives a unique referral code from a first name:
// the lowercased name with whitespace stripped, followed by a random 4-digit
// suffix, retried until exists reports no collision.
func GenerateReferralCode(ctx context.Context, firstName string, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	base := strings.ToLower(whitespaceRegex.ReplaceAllString(firstName, ""))

	for attempt := 0; attempt < maxReferralCodeAttempts; attempt++ {
		code := fmt.Sprintf("%s%04d", base, 1000+rand.Intn(9000))

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check referral code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("could not generate unique referral code for %q", firstName)
}
