package limit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ytdl-bot/internal/app/repository"
)

// Quota renders the remaining-quota line embedded in captions and greetings.
// It accounts usage, it does not block: the reference behavior is counters
// plus messaging only.
type Quota struct {
	metrics   repository.MetricsStore
	limit     int64
	enableVIP bool
	logger    *zap.Logger
}

func NewQuota(metrics repository.MetricsStore, limit int64, enableVIP bool, logger *zap.Logger) *Quota {
	return &Quota{metrics: metrics, limit: limit, enableVIP: enableVIP, logger: logger}
}

// Remaining returns the user-visible quota line. Best effort: a store failure
// degrades to a generic line instead of failing the caller.
func (q *Quota) Remaining(ctx context.Context, chatID int64) string {
	if q.limit <= 0 {
		return "Quota: unlimited"
	}

	used, err := q.metrics.DailyCount(ctx, chatID)
	if err != nil {
		q.logger.Warn("daily count lookup failed", zap.Int64("chat", chatID), zap.Error(err))
		return fmt.Sprintf("Daily quota: %d", q.limit)
	}

	left := q.limit - used
	if left < 0 {
		left = 0
	}
	return fmt.Sprintf("Remaining quota today: %d/%d", left, q.limit)
}

// Greeting returns the salutation used by /start.
func (q *Quota) Greeting() string {
	if q.enableVIP {
		return "Welcome, VIP mode is enabled on this instance.\n\n"
	}
	return "Welcome!\n\n"
}
