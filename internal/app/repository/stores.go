package repository

import (
	"context"

	"ytdl-bot/internal/app/model"
)

// Settings keys accepted by SettingsStore.Set.
const (
	SettingMethod     = "method"
	SettingResolution = "resolution"
)

// Metric counter names. The daily per-user counter is tracked separately via
// IncrementDaily.
const (
	MetricBadRequest   = "bad_request"
	MetricVideoRequest = "video_request"
	MetricVideoSuccess = "video_success"
	MetricAudioRequest = "audio_request"
	MetricAudioSuccess = "audio_success"
)

// SettingsStore persists per-user delivery preferences. Get creates the row
// with defaults on first read. Writes are last-writer-wins per key.
type SettingsStore interface {
	Get(ctx context.Context, chatID int64) (model.UserSettings, error)
	Set(ctx context.Context, chatID int64, key, value string) error
	Close() error
}

// MetricsStore holds the named counters and the per-user daily usage counter.
// Increments must be atomic per counter key; ResetDaily must be idempotent.
type MetricsStore interface {
	Increment(ctx context.Context, name string) error
	IncrementDaily(ctx context.Context, chatID int64) error
	DailyCount(ctx context.Context, chatID int64) (int64, error)
	Snapshot(ctx context.Context) (model.UsageReport, error)
	ResetDaily(ctx context.Context) error
	Close() error
}
