package utils

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Str0ng#pass"))
	assert.True(t, ValidatePassword("Aa1#aaaa"))

	assert.False(t, ValidatePassword("Aa1#aaa"), "too short")
	assert.False(t, ValidatePassword("aa1#aaaa"), "no uppercase")
	assert.False(t, ValidatePassword("AA1#AAAA"), "no lowercase")
	assert.False(t, ValidatePassword("Aaa#aaaa"), "no digit")
	assert.False(t, ValidatePassword("Aa1aaaaa"), "no special character")
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("alice@example.com"))
	assert.True(t, ValidateEmail("a.b+tag@sub.example.co"))

	assert.False(t, ValidateEmail("invalid-email"))
	assert.False(t, ValidateEmail("@example.com"))
	assert.False(t, ValidateEmail("alice@"))
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", SanitizeEmail("  Alice@Example.COM "))
}

func TestValidateReferralCodeFormat(t *testing.T) {
	assert.True(t, ValidateReferralCodeFormat("alice1234"))
	assert.False(t, ValidateReferralCodeFormat("ab123"))
	assert.False(t, ValidateReferralCodeFormat(strings.Repeat("a", 13)))
}

func TestGenerateReferralCode(t *testing.T) {
	code, err := GenerateReferralCode(context.Background(), "Mary Jane", func(_ context.Context, _ string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "maryjane"))
	assert.Len(t, code, len("maryjane")+4)
}

func TestGenerateReferralCodeGivesUpOnCollisions(t *testing.T) {
	_, err := GenerateReferralCode(context.Background(), "Alice", func(_ context.Context, _ string) (bool, error) {
		return true, nil
	})
	assert.Error(t, err)
}
