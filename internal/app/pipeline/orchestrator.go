package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"ytdl-bot/internal/app/bot"
	"ytdl-bot/internal/app/downloader"
	"ytdl-bot/internal/app/errors"
	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/repository"
	"ytdl-bot/internal/app/util/files"
)

// DeliverFunc consumes the download result while the workspace still exists.
type DeliverFunc func(ctx context.Context, req *model.JobRequest, status bot.MessageRef, result model.DownloadResult) error

// Orchestrator owns the lifecycle of one job: metric, acknowledgment,
// workspace, single downloader invocation, delivery. The workspace is
// released on every exit path, including a panic inside delivery.
type Orchestrator struct {
	downloader downloader.Downloader
	transport  bot.Transport
	metrics    repository.MetricsStore
	tempRoot   string
	logger     *zap.Logger
}

func NewOrchestrator(dl downloader.Downloader, transport bot.Transport, metrics repository.MetricsStore, tempRoot string, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		downloader: dl,
		transport:  transport,
		metrics:    metrics,
		tempRoot:   tempRoot,
		logger:     logger,
	}
}

func (o *Orchestrator) Execute(ctx context.Context, req *model.JobRequest, resolution model.Resolution, deliver DeliverFunc) error {
	// Counted before the downloader runs so quota reflects attempts.
	if err := o.metrics.Increment(ctx, repository.MetricVideoRequest); err != nil {
		o.logger.Warn("video_request increment failed", zap.Error(err))
	}

	status, err := o.transport.SendText(req.ChatID, textProcessing, req.MessageID)
	if err != nil {
		return errors.Wrap(err, "failed to acknowledge request")
	}
	if err := o.transport.SendChatAction(req.ChatID, bot.ActionUploadVideo); err != nil {
		o.logger.Debug("chat action failed", zap.Error(err))
	}

	ws, err := files.AcquireWorkspace(o.tempRoot)
	if err != nil {
		o.editBestEffort(status, fmt.Sprintf(textFailed, "could not allocate a workspace"))
		return errors.Wrap(errors.ErrWorkspaceFailed, err.Error())
	}
	defer ws.Release()

	o.logger.Info("download started", zap.String("url", req.URL), zap.Int64("chat", req.ChatID))
	sink := newStatusSink(o.transport, status, "Downloading")
	result := o.downloader.Fetch(ctx, req.URL, ws.Dir(), resolution, sink)
	o.logger.Info("download complete",
		zap.String("url", req.URL),
		zap.Bool("success", result.Success),
		zap.Int("files", len(result.Files)))

	return deliver(ctx, req, status, result)
}

func (o *Orchestrator) editBestEffort(ref bot.MessageRef, text string) {
	if err := o.transport.EditText(ref, text); err != nil {
		o.logger.Warn("status edit failed", zap.Error(err))
	}
}

// statusSink throttles progress edits to significant increments so the
// transport is not flooded.
type statusSink struct {
	transport bot.Transport
	ref       bot.MessageRef
	label     string

	mu   sync.Mutex
	last float64
}

const progressStep = 20

func newStatusSink(transport bot.Transport, ref bot.MessageRef, label string) *statusSink {
	return &statusSink{transport: transport, ref: ref, label: label}
}

func (s *statusSink) Report(percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if percent <= s.last || (percent < 100 && percent-s.last < progressStep) {
		return
	}
	s.last = percent
	// Best effort; a dropped edit only costs one progress tick.
	s.transport.EditText(s.ref, fmt.Sprintf("%s... %.0f%%", s.label, percent))
}
