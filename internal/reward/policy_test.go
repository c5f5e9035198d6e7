package reward

import (
	"testing"
	"time"

	"github.com/mpetrovskiy/reward-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(coins int) *domain.User {
	return &domain.User{ID: "u1", Email: "user@example.com", Coins: coins}
}

func TestApplyReferral_CreditsBothSides(t *testing.T) {
	referee := newUser(BaseCoins)
	referrer := &domain.User{ID: "r1", Email: "alice@example.com", Coins: BaseCoins, ReferredCount: 0}

	entries := ApplyReferral(referee, referrer)

	assert.Equal(t, BaseCoins+ReferralBonus, referee.Coins)
	assert.Equal(t, BaseCoins+ReferralBonus, referrer.Coins)
	assert.Equal(t, 1, referrer.ReferredCount)

	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActivityReferral, entries[0].Type)
	assert.Equal(t, ReferralBonus, entries[0].Coins)
	assert.Contains(t, entries[0].Description, referee.Email)
}

func TestApplyReferral_NetworkerFiresExactlyAtFive(t *testing.T) {
	// End-to-end example: Alice has 100 coins and 4 referrals. One more
	// referral takes her to 200 coins, 5 referrals, and two ledger entries.
	referee := newUser(BaseCoins)
	alice := &domain.User{ID: "alice", Email: "alice@example.com", Coins: 100, ReferredCount: 4}

	entries := ApplyReferral(referee, alice)

	assert.Equal(t, 150, referee.Coins)
	assert.Equal(t, 200, alice.Coins)
	assert.Equal(t, 5, alice.ReferredCount)

	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActivityReferral, entries[0].Type)
	assert.Equal(t, domain.ActivityAchievement, entries[1].Type)
	assert.Equal(t, NetworkerBonus, entries[1].Coins)
}

func TestApplyReferral_NoNetworkerPastFive(t *testing.T) {
	referee := newUser(BaseCoins)
	referrer := &domain.User{ID: "r1", Coins: 500, ReferredCount: 5}

	entries := ApplyReferral(referee, referrer)

	assert.Equal(t, 6, referrer.ReferredCount)
	assert.Equal(t, 550, referrer.Coins)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActivityReferral, entries[0].Type)
}

func TestApplyDailyLogin_FirstLoginOfDay(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	u := newUser(100)
	u.LastLoginDate = &yesterday
	u.ConsecutiveLogins = 1
	u.LoginCount = 7

	entries := ApplyDailyLogin(u, now)

	assert.Equal(t, 110, u.Coins)
	assert.Equal(t, 2, u.ConsecutiveLogins)
	assert.Equal(t, 8, u.LoginCount)
	require.NotNil(t, u.LastLoginDate)
	assert.True(t, u.LastLoginDate.Equal(now))
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActivityDailyLogin, entries[0].Type)
	assert.Equal(t, DailyLoginBonus, entries[0].Coins)
}

func TestApplyDailyLogin_NeverLoggedIn(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	u := newUser(BaseCoins)

	entries := ApplyDailyLogin(u, now)

	assert.Equal(t, BaseCoins+DailyLoginBonus, u.Coins)
	assert.Equal(t, 1, u.ConsecutiveLogins)
	assert.Equal(t, 1, u.LoginCount)
	require.Len(t, entries, 1)
}

func TestApplyDailyLogin_SameDayRepeatGrantsNothing(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	earlier := now.Add(-2 * time.Hour)
	u := newUser(110)
	u.LastLoginDate = &earlier
	u.ConsecutiveLogins = 2
	u.LoginCount = 3

	entries := ApplyDailyLogin(u, now)

	assert.Empty(t, entries)
	assert.Equal(t, 110, u.Coins)
	// Same-day repeat login resets the streak accounting to 1.
	assert.Equal(t, 1, u.ConsecutiveLogins)
	assert.Equal(t, 4, u.LoginCount)
	assert.True(t, u.LastLoginDate.Equal(earlier))
}

func TestApplyDailyLogin_ReplaySameDateIsIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	u := newUser(BaseCoins)

	first := ApplyDailyLogin(u, now)
	require.Len(t, first, 1)
	coinsAfterFirst := u.Coins

	second := ApplyDailyLogin(u, now.Add(time.Minute))
	assert.Empty(t, second)
	assert.Equal(t, coinsAfterFirst, u.Coins)
}

func TestApplyDailyLogin_EarlyBirdAtThreeAndStreakReset(t *testing.T) {
	u := newUser(BaseCoins)
	day := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	var entries []Entry
	for i := 0; i < EarlyBirdStreak; i++ {
		entries = ApplyDailyLogin(u, day.AddDate(0, 0, i))
	}

	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActivityDailyLogin, entries[0].Type)
	assert.Equal(t, domain.ActivityAchievement, entries[1].Type)
	assert.Equal(t, EarlyBirdBonus, entries[1].Coins)
	assert.Equal(t, 0, u.ConsecutiveLogins)
	assert.Equal(t, BaseCoins+3*DailyLoginBonus+EarlyBirdBonus, u.Coins)
	assert.Equal(t, 3, u.LoginCount)
}

func TestApplyDailyLogin_DayBoundaryIsUTC(t *testing.T) {
	// 23:50 UTC and 00:10 UTC next day are different calendar days even
	// though only 20 minutes apart.
	lateNight := time.Date(2026, 8, 30, 23, 50, 0, 0, time.UTC)
	u := newUser(BaseCoins)
	ApplyDailyLogin(u, lateNight)

	entries := ApplyDailyLogin(u, lateNight.Add(20*time.Minute))
	require.Len(t, entries, 1)
	assert.Equal(t, 2, u.ConsecutiveLogins)
}

func TestApplyProfileUpdate_RewardOnCompletingCall(t *testing.T) {
	u := newUser(BaseCoins)

	entries := ApplyProfileUpdate(u, "hello there", "")
	assert.Empty(t, entries)
	assert.False(t, u.IsProfileComplete)
	assert.Equal(t, BaseCoins, u.Coins)

	entries = ApplyProfileUpdate(u, "", "https://cdn.example.com/pic.png")
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActivityProfileUpdate, entries[0].Type)
	assert.Equal(t, ProfileCompletionBonus, entries[0].Coins)
	assert.True(t, u.IsProfileComplete)
	assert.Equal(t, BaseCoins+ProfileCompletionBonus, u.Coins)
}

func TestApplyProfileUpdate_NoDuplicateReward(t *testing.T) {
	u := newUser(BaseCoins)
	ApplyProfileUpdate(u, "bio", "pic.png")
	require.True(t, u.IsProfileComplete)
	coins := u.Coins

	entries := ApplyProfileUpdate(u, "new bio", "new-pic.png")
	assert.Empty(t, entries)
	assert.Equal(t, coins, u.Coins)
	assert.Equal(t, "new bio", u.Bio)
	assert.Equal(t, "new-pic.png", u.ProfilePic)
}

func TestApplyProfileUpdate_PartialKeepsPreviousValues(t *testing.T) {
	u := newUser(BaseCoins)
	u.Bio = "existing bio"

	ApplyProfileUpdate(u, "", "")
	assert.Equal(t, "existing bio", u.Bio)
	assert.Empty(t, u.ProfilePic)
	assert.False(t, u.IsProfileComplete)
}
