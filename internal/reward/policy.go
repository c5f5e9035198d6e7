// Package reward implements the reward policy engine: pure decision logic
// that, given a user's current state and an incoming event, mutates the
// in-memory user and returns the ledger entries to append. It performs no
// I/O; callers are expected to evaluate it against a consistently locked
// user row and persist user and entries in one transaction.
package reward

import (
	"fmt"
	"time"

	"github.com/mpetrovskiy/reward-service/internal/domain"
)

// Entry describes one ledger entry produced by the policy. The caller
// assigns the owning user and identifiers when persisting.
type Entry struct {
	Type        domain.ActivityType
	Description string
	Coins       int
}

// ApplyReferral credits both sides of a successful referral and increments
// the referrer's counter. When the counter lands exactly on
// NetworkerThreshold the one-time networker achievement fires as well.
// Returned entries belong to the referrer.
func ApplyReferral(referee, referrer *domain.User) []Entry {
	referee.Coins += ReferralBonus
	referrer.Coins += ReferralBonus
	referrer.ReferredCount++

	entries := []Entry{{
		Type:        domain.ActivityReferral,
		Description: fmt.Sprintf("Referred new user: %s", referee.Email),
		Coins:       ReferralBonus,
	}}

	if referrer.ReferredCount == NetworkerThreshold {
		referrer.Coins += NetworkerBonus
		entries = append(entries, Entry{
			Type:        domain.ActivityAchievement,
			Description: "Successfully referred 5 friends!",
			Coins:       NetworkerBonus,
		})
	}

	return entries
}

// ApplyDailyLogin applies the daily login policy for a login happening at
// now. The first login of a calendar day earns DailyLoginBonus and extends
// the streak; a streak of EarlyBirdStreak earns the early bird achievement
// and restarts the streak. A repeat login on the same day earns nothing and
// resets the streak to 1. The login counter increments either way.
func ApplyDailyLogin(u *domain.User, now time.Time) []Entry {
	u.LoginCount++

	if u.LastLoginDate != nil && sameCalendarDay(*u.LastLoginDate, now) {
		u.ConsecutiveLogins = 1
		return nil
	}

	u.Coins += DailyLoginBonus
	t := now
	u.LastLoginDate = &t
	u.ConsecutiveLogins++

	entries := []Entry{{
		Type:        domain.ActivityDailyLogin,
		Description: "Daily login reward",
		Coins:       DailyLoginBonus,
	}}

	if u.ConsecutiveLogins == EarlyBirdStreak {
		u.Coins += EarlyBirdBonus
		u.ConsecutiveLogins = 0
		entries = append(entries, Entry{
			Type:        domain.ActivityAchievement,
			Description: "Unlocked 'Early Bird' achievement - 3 consecutive logins",
			Coins:       EarlyBirdBonus,
		})
	}

	return entries
}

// ApplyProfileUpdate applies a partial profile update; empty fields keep
// their previous value. The completion reward fires exactly once, on the
// update that first makes both fields non-empty.
func ApplyProfileUpdate(u *domain.User, bio, profilePic string) []Entry {
	if bio != "" {
		u.Bio = bio
	}
	if profilePic != "" {
		u.ProfilePic = profilePic
	}

	if u.Bio == "" || u.ProfilePic == "" || u.IsProfileComplete {
		return nil
	}

	u.IsProfileComplete = true
	u.Coins += ProfileCompletionBonus

	return []Entry{{
		Type:        domain.ActivityProfileUpdate,
		Description: "Unlocked 'Verified Profile' achievement - Profile 100% complete",
		Coins:       ProfileCompletionBonus,
	}}
}

// sameCalendarDay reports whether a and b fall on the same UTC calendar
// date. The policy compares dates, not timestamps.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
