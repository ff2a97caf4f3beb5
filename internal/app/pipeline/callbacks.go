package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"ytdl-bot/internal/app/bot"
	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/repository"
	"ytdl-bot/internal/app/util/files"
)

// AudioExtractor pulls the audio track out of a local video file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, src, dst string) error
}

// Callbacks handles inline-button presses. Each press is stateless and
// correlated only by its callback token; settings changes are visible to the
// next request through the shared store.
type Callbacks struct {
	transport bot.Transport
	settings  repository.SettingsStore
	metrics   repository.MetricsStore
	extractor AudioExtractor
	tempRoot  string
	logger    *zap.Logger
}

func NewCallbacks(transport bot.Transport, settings repository.SettingsStore, metrics repository.MetricsStore,
	extractor AudioExtractor, tempRoot string, logger *zap.Logger) *Callbacks {
	return &Callbacks{
		transport: transport,
		settings:  settings,
		metrics:   metrics,
		extractor: extractor,
		tempRoot:  tempRoot,
		logger:    logger,
	}
}

func (c *Callbacks) Handle(ctx context.Context, ev *model.CallbackEvent) {
	callbacksTotal.WithLabelValues(ev.Data).Inc()

	switch {
	case model.ValidSendMethod(ev.Data):
		c.setSetting(ctx, ev, repository.SettingMethod, textMethodSet)
	case model.ValidResolution(ev.Data):
		c.setSetting(ctx, ev, repository.SettingResolution, textResolutionSet)
	case ev.Data == "audio":
		c.convertAudio(ctx, ev)
	default:
		c.logger.Warn("unknown callback token", zap.String("data", ev.Data))
		c.answerBestEffort(ev.ID, "Unknown action")
	}
}

func (c *Callbacks) setSetting(ctx context.Context, ev *model.CallbackEvent, key, confirmFormat string) {
	c.logger.Info("updating user setting",
		zap.Int64("chat", ev.ChatID),
		zap.String("key", key),
		zap.String("value", ev.Data))

	if err := c.settings.Set(ctx, ev.ChatID, key, ev.Data); err != nil {
		c.logger.Error("settings update failed", zap.Error(err))
		c.answerBestEffort(ev.ID, "Could not save your preference, try again.")
		return
	}
	c.answerBestEffort(ev.ID, fmt.Sprintf(confirmFormat, ev.Data))
}

func (c *Callbacks) convertAudio(ctx context.Context, ev *model.CallbackEvent) {
	// The platform voids the callback token quickly, so the toast goes out
	// before any conversion work starts.
	c.answerBestEffort(ev.ID, textAudioConverting)

	if err := c.metrics.Increment(ctx, repository.MetricAudioRequest); err != nil {
		c.logger.Warn("audio_request increment failed", zap.Error(err))
	}

	if ev.VideoFileID == "" {
		c.logger.Warn("audio callback without a video attachment", zap.Int64("chat", ev.ChatID))
		return
	}

	ws, err := files.AcquireWorkspace(c.tempRoot)
	if err != nil {
		c.logger.Error("workspace allocation failed", zap.Error(err))
		c.sendBestEffort(ev.ChatID, textAudioFailed)
		return
	}
	defer ws.Release()

	// The file name is platform-supplied; strip any path components so the
	// write cannot escape the workspace.
	videoName := filepath.Base(ev.VideoFileName)
	if videoName == "." || videoName == ".." || videoName == string(filepath.Separator) {
		videoName = "video.mp4"
	}
	videoPath := filepath.Join(ws.Dir(), videoName)
	audioPath := filepath.Join(ws.Dir(), files.ReplaceExt(videoName, ".m4a"))

	c.actionBestEffort(ev.ChatID, bot.ActionRecordVideoNote)
	if err := c.transport.DownloadAttachment(ctx, ev.VideoFileID, videoPath); err != nil {
		c.logger.Error("attachment download failed", zap.Error(err))
		c.sendBestEffort(ev.ChatID, textAudioFailed)
		return
	}

	c.actionBestEffort(ev.ChatID, bot.ActionRecordVoice)
	if err := c.extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		c.logger.Error("audio extraction failed", zap.Error(err))
		c.sendBestEffort(ev.ChatID, textAudioFailed)
		return
	}

	c.actionBestEffort(ev.ChatID, bot.ActionUploadVoice)
	if err := c.transport.SendAudio(ev.ChatID, audioPath); err != nil {
		c.logger.Error("audio send failed", zap.Error(err))
		return
	}

	if err := c.metrics.Increment(ctx, repository.MetricAudioSuccess); err != nil {
		c.logger.Warn("audio_success increment failed", zap.Error(err))
	}
}

func (c *Callbacks) answerBestEffort(callbackID, text string) {
	if err := c.transport.AnswerCallback(callbackID, text); err != nil {
		c.logger.Warn("callback answer failed", zap.Error(err))
	}
}

func (c *Callbacks) sendBestEffort(chatID int64, text string) {
	if _, err := c.transport.SendText(chatID, text, 0); err != nil {
		c.logger.Warn("reply failed", zap.Error(err))
	}
}

func (c *Callbacks) actionBestEffort(chatID int64, action string) {
	if err := c.transport.SendChatAction(chatID, action); err != nil {
		c.logger.Debug("chat action failed", zap.Error(err))
	}
}
