package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"ytdl-bot/internal/app/errors"
	"ytdl-bot/internal/app/model"
)

const (
	metricsKey = "ytdlbot:metrics"
	dailyKey   = "ytdlbot:daily"
)

// MetricsDB keeps the named counters in one hash and the per-user daily
// counters in another. HINCRBY gives the per-key atomicity the pipeline
// counters rely on.
type MetricsDB struct {
	client *redis.Client
}

func NewMetricsDB(addr, password string) (*MetricsDB, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to redis")
	}
	return &MetricsDB{client: client}, nil
}

// NewMetricsDBWithClient wraps an existing client, used by tests.
func NewMetricsDBWithClient(client *redis.Client) *MetricsDB {
	return &MetricsDB{client: client}
}

func (m *MetricsDB) Increment(ctx context.Context, name string) error {
	if err := m.client.HIncrBy(ctx, metricsKey, name, 1).Err(); err != nil {
		return errors.Wrapf(err, "failed to increment %s", name)
	}
	return nil
}

func (m *MetricsDB) IncrementDaily(ctx context.Context, chatID int64) error {
	field := strconv.FormatInt(chatID, 10)
	if err := m.client.HIncrBy(ctx, dailyKey, field, 1).Err(); err != nil {
		return errors.Wrapf(err, "failed to increment daily counter for %d", chatID)
	}
	return nil
}

func (m *MetricsDB) DailyCount(ctx context.Context, chatID int64) (int64, error) {
	field := strconv.FormatInt(chatID, 10)
	val, err := m.client.HGet(ctx, dailyKey, field).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read daily counter for %d", chatID)
	}
	return val, nil
}

func (m *MetricsDB) Snapshot(ctx context.Context) (model.UsageReport, error) {
	report := model.UsageReport{
		GeneratedAt: time.Now(),
		Counters:    make(map[string]int64),
		Daily:       make(map[int64]int64),
	}

	counters, err := m.client.HGetAll(ctx, metricsKey).Result()
	if err != nil {
		return report, errors.Wrap(err, "failed to read metrics")
	}
	for name, raw := range counters {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			report.Counters[name] = v
		}
	}

	daily, err := m.client.HGetAll(ctx, dailyKey).Result()
	if err != nil {
		return report, errors.Wrap(err, "failed to read daily counters")
	}
	for id, raw := range daily {
		chatID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			report.Daily[chatID] = v
		}
	}

	return report, nil
}

// ResetDaily zeroes all per-user daily counters. Deleting the hash is atomic
// and safe to repeat.
func (m *MetricsDB) ResetDaily(ctx context.Context) error {
	if err := m.client.Del(ctx, dailyKey).Err(); err != nil {
		return errors.Wrap(err, "failed to reset daily counters")
	}
	return nil
}

func (m *MetricsDB) Close() error {
	return m.client.Close()
}
