package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"ytdl-bot/internal/app/archive"
	"ytdl-bot/internal/app/bot"
	"ytdl-bot/internal/app/limit"
	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/repository"
)

// Prober derives best-effort media metadata; it never fails the job.
type Prober interface {
	Probe(path string) model.MediaMetadata
}

// Formatter renders a finished DownloadResult back to the user: captions,
// document-vs-video selection, upload progress, terminal status edit.
type Formatter struct {
	transport bot.Transport
	settings  repository.SettingsStore
	metrics   repository.MetricsStore
	prober    Prober
	quota     *limit.Quota
	archiver  archive.Uploader
	logger    *zap.Logger
}

func NewFormatter(transport bot.Transport, settings repository.SettingsStore, metrics repository.MetricsStore,
	prober Prober, quota *limit.Quota, archiver archive.Uploader, logger *zap.Logger) *Formatter {
	return &Formatter{
		transport: transport,
		settings:  settings,
		metrics:   metrics,
		prober:    prober,
		quota:     quota,
		archiver:  archiver,
		logger:    logger,
	}
}

func audioMarkup() bot.Markup {
	return bot.Markup{{{Label: "audio", Data: "audio"}}}
}

func (f *Formatter) Deliver(ctx context.Context, req *model.JobRequest, status bot.MessageRef, result model.DownloadResult) error {
	if !result.Success {
		return f.deliverFailure(req, status, result)
	}

	if err := f.transport.SendChatAction(req.ChatID, bot.ActionUploadDocument); err != nil {
		f.logger.Debug("chat action failed", zap.Error(err))
	}
	f.editBestEffort(status, textSending)

	for _, path := range result.Files {
		if err := f.sendFile(ctx, req, status, path); err != nil {
			f.logger.Error("file delivery failed", zap.String("path", path), zap.Error(err))
			continue
		}
		if err := f.metrics.Increment(ctx, repository.MetricVideoSuccess); err != nil {
			f.logger.Warn("video_success increment failed", zap.Error(err))
		}
		if err := f.archiver.Store(ctx, path, req.ChatID); err != nil {
			f.logger.Warn("archival failed", zap.Error(err))
		}
	}

	f.editBestEffort(status, textSuccess)
	return nil
}

func (f *Formatter) deliverFailure(req *model.JobRequest, status bot.MessageRef, result model.DownloadResult) error {
	if err := f.transport.SendChatAction(req.ChatID, bot.ActionTyping); err != nil {
		f.logger.Debug("chat action failed", zap.Error(err))
	}
	detail := truncate(result.Error, maxErrorDetail)
	f.editBestEffort(status, fmt.Sprintf(textFailed, detail))
	return nil
}

func (f *Formatter) sendFile(ctx context.Context, req *model.JobRequest, status bot.MessageRef, path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}
	size := humanize.IBytes(uint64(stat.Size()))
	meta := f.prober.Probe(path)

	caption := fmt.Sprintf("%s\n\n%s\n\nInfo: %dx%d %s\n\n%s",
		filepath.Base(path), req.URL, meta.Width, meta.Height, size,
		f.quota.Remaining(ctx, req.ChatID))

	settings, err := f.settings.Get(ctx, req.ChatID)
	if err != nil {
		f.logger.Warn("settings lookup failed, using defaults", zap.Error(err))
		settings = model.DefaultSettings(req.ChatID)
	}

	att := bot.Attachment{Path: path, Caption: caption, Thumb: meta.Thumb, Meta: meta}
	progress := newUploadNotifier(f.transport, status)

	if settings.Method == model.SendMethodDocument {
		f.logger.Info("sending as document", zap.Int64("chat", req.ChatID))
		return f.transport.SendDocument(req.ChatID, att, audioMarkup(), progress)
	}
	f.logger.Info("sending as video", zap.Int64("chat", req.ChatID))
	return f.transport.SendVideo(req.ChatID, att, audioMarkup(), progress)
}

func (f *Formatter) editBestEffort(ref bot.MessageRef, text string) {
	if err := f.transport.EditText(ref, text); err != nil {
		f.logger.Warn("status edit failed", zap.Error(err))
	}
}

// newUploadNotifier reports upload progress back to the acknowledgment
// message, again only at significant increments.
func newUploadNotifier(transport bot.Transport, ref bot.MessageRef) bot.UploadProgress {
	sink := newStatusSink(transport, ref, "Uploading")
	return func(written, total int64) {
		if total <= 0 {
			return
		}
		percent := float64(written) / float64(total) * 100
		if percent >= 100 {
			// The final state is the success/failure edit, not a 100% tick.
			return
		}
		sink.Report(percent)
	}
}
