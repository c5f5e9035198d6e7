package acceptance

import (
	"fmt"
	"net/http"

	"github.com/mpetrovskiy/reward-service/internal/dto"
)

func (s *Suite) TestProfileCompletion_RewardOnce() {
	authResp := s.register("Alice", "alice@example.com", "")

	partial := s.putJSON("/api/v1/users/profile", authResp.AccessToken, dto.UpdateProfileRequest{
		Bio: "gopher",
	})
	s.Equal(http.StatusOK, partial.StatusCode)

	var profile dto.ProfileResponse
	s.decode(partial, &profile)
	s.False(profile.IsProfileComplete)
	s.Equal(100, profile.Coins)

	complete := s.putJSON("/api/v1/users/profile", authResp.AccessToken, dto.UpdateProfileRequest{
		ProfilePic: "https://cdn.example.com/alice.png",
	})
	s.Equal(http.StatusOK, complete.StatusCode)
	s.decode(complete, &profile)
	s.True(profile.IsProfileComplete)
	s.Equal(130, profile.Coins)

	again := s.putJSON("/api/v1/users/profile", authResp.AccessToken, dto.UpdateProfileRequest{
		Bio: "still a gopher",
	})
	s.Equal(http.StatusOK, again.StatusCode)
	s.decode(again, &profile)
	s.Equal(130, profile.Coins, "completion reward is one-time")
}

func (s *Suite) TestActivityReport() {
	authResp := s.register("Alice", "alice@example.com", "")
	s.login("alice@example.com")

	profile := s.putJSON("/api/v1/users/profile", authResp.AccessToken, dto.UpdateProfileRequest{
		Bio:        "gopher",
		ProfilePic: "https://cdn.example.com/alice.png",
	})
	profile.Body.Close()
	s.Equal(http.StatusOK, profile.StatusCode)

	resp := s.getJSON("/api/v1/users/activity", authResp.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)

	var report dto.ActivityResponse
	s.decode(resp, &report)

	// Daily login (10) + profile completion (30); the signup grant is not a
	// ledger entry.
	s.Equal(40, report.TotalCoins)
	s.Len(report.Activities, 2)
}

func (s *Suite) TestNetworkerAchievement() {
	referrer := s.register("Alice", "alice@example.com", "")

	for i := 0; i < 5; i++ {
		s.register("Friend", fmt.Sprintf("friend%d@example.com", i), referrer.User.ReferralCode)
	}

	resp := s.getJSON("/api/v1/auth/me", referrer.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)

	var me dto.UserResponse
	s.decode(resp, &me)
	s.Equal(400, me.Coins)
	s.Equal(5, me.ReferredCount)

	activity := s.getJSON("/api/v1/users/activity", referrer.AccessToken)
	s.Equal(http.StatusOK, activity.StatusCode)

	var report dto.ActivityResponse
	s.decode(activity, &report)
	s.Equal(1, report.AchievementCount)
	s.Equal(300, report.TotalCoins)
}
