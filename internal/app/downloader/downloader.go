package downloader

import (
	"context"

	"ytdl-bot/internal/app/model"
)

// ProgressSink receives download progress at a bounded rate. Implementations
// must tolerate out-of-order or repeated percentages.
type ProgressSink interface {
	Report(percent float64)
}

// Downloader turns a URL into files inside destDir. It never leaves partial
// files outside destDir and reports failures as data, not errors, so callers
// always have something to show the user.
type Downloader interface {
	Fetch(ctx context.Context, url, destDir string, resolution model.Resolution, sink ProgressSink) model.DownloadResult
}

// NopSink discards progress updates.
type NopSink struct{}

func (NopSink) Report(float64) {}
