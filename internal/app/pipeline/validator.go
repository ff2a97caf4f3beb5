package pipeline

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"ytdl-bot/internal/app/auth"
	"ytdl-bot/internal/app/bot"
	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/repository"
)

var urlRe = regexp.MustCompile(`(?i)^https?://`)

// Validator turns raw command text into a normalized URL. On failure it
// counts the bad request and prompts the user; ok=false means the reply has
// already been sent and the job must not proceed.
type Validator struct {
	metrics   repository.MetricsStore
	transport bot.Transport
	logger    *zap.Logger
}

func NewValidator(metrics repository.MetricsStore, transport bot.Transport, logger *zap.Logger) *Validator {
	return &Validator{metrics: metrics, transport: transport, logger: logger}
}

func (v *Validator) Validate(ctx context.Context, req *model.JobRequest) (string, bool) {
	url := strings.TrimSpace(req.Text)
	if strings.HasPrefix(strings.ToLower(url), auth.InvocationPrefix) {
		url = strings.TrimSpace(url[len(auth.InvocationPrefix):])
	}

	if !urlRe.MatchString(url) {
		if err := v.metrics.Increment(ctx, repository.MetricBadRequest); err != nil {
			v.logger.Warn("bad_request increment failed", zap.Error(err))
		}
		if _, err := v.transport.SendText(req.ChatID, textSendLink, req.MessageID); err != nil {
			v.logger.Warn("validation reply failed", zap.Error(err))
		}
		return "", false
	}

	return url, true
}
