package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler != nil {
			handler.ServeHTTP(c.Writer, c.Request)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
		}
	}
}

// RewardMetrics records counters for the reward engine.
type RewardMetrics struct {
	coinsAwarded metric.Int64Counter
	achievements metric.Int64Counter
}

// NewRewardMetrics registers reward counters on the global meter provider.
func NewRewardMetrics() (*RewardMetrics, error) {
	meter := otel.Meter("reward-service")

	coins, err := meter.Int64Counter("reward_coins_awarded_total",
		metric.WithDescription("Total coins awarded, by activity type"))
	if err != nil {
		return nil, fmt.Errorf("failed to create coins counter: %w", err)
	}

	achievements, err := meter.Int64Counter("reward_achievements_unlocked_total",
		metric.WithDescription("Total one-time achievements unlocked"))
	if err != nil {
		return nil, fmt.Errorf("failed to create achievements counter: %w", err)
	}

	return &RewardMetrics{coinsAwarded: coins, achievements: achievements}, nil
}

// RecordAward records a coin grant of one activity type. Nil receivers are
// allowed so services can run without metrics in tests.
func (m *RewardMetrics) RecordAward(ctx context.Context, activityType string, coins int) {
	if m == nil {
		return
	}
	m.coinsAwarded.Add(ctx, int64(coins), metric.WithAttributes(attribute.String("type", activityType)))
	if activityType == "achievement" {
		m.achievements.Add(ctx, 1)
	}
}
