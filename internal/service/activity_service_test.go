package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mpetrovskiy/reward-service/internal/dto"
	"github.com/mpetrovskiy/reward-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetUserActivityAggregatesLedger(t *testing.T) {
	store := newFakeStore()
	jwtManager := utils.NewJWTManager(strings.Repeat("s", 32), 15*24*time.Hour)
	auth := NewAuthService(store.repos, store, jwtManager, newFakeBlacklist(), newFakeNotifier(), nil, 4, 10*time.Minute, zap.NewNop())
	activity := NewActivityService(store.repos)
	ctx := context.Background()

	resp, err := auth.Register(ctx, registerRequest("alice@example.com"))
	require.NoError(t, err)

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "Str0ng#pass"})
	require.NoError(t, err)

	_, err = auth.UpdateProfile(ctx, resp.User.ID, "gopher", "https://cdn.example.com/a.png")
	require.NoError(t, err)

	report, err := activity.GetUserActivity(ctx, resp.User.ID)
	require.NoError(t, err)

	// Daily login (10) + profile completion (30); base coins are not a
	// ledger entry.
	assert.Equal(t, 40, report.TotalCoins)
	assert.Equal(t, 0, report.AchievementCount)
	assert.Len(t, report.Activities, 2)
}

func TestGetUserActivityUnknownUser(t *testing.T) {
	store := newFakeStore()
	activity := NewActivityService(store.repos)

	_, err := activity.GetUserActivity(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
