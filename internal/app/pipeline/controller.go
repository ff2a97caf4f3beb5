package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"ytdl-bot/internal/app/auth"
	"ytdl-bot/internal/app/bot"
	"ytdl-bot/internal/app/limit"
	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/report"
	"ytdl-bot/internal/app/repository"
)

// Controller composes gate -> validator -> orchestrator -> formatter in
// strict order, short-circuiting on the first denial or failure. It owns no
// state beyond the per-invocation JobRequest.
type Controller struct {
	gate         *auth.Gate
	validator    *Validator
	orchestrator *Orchestrator
	formatter    *Formatter
	callbacks    *Callbacks

	transport bot.Transport
	settings  repository.SettingsStore
	metrics   repository.MetricsStore
	quota     *limit.Quota
	verifier  limit.PaymentVerifier

	owner     string
	startedAt time.Time
	logger    *zap.Logger
}

func NewController(
	gate *auth.Gate,
	validator *Validator,
	orchestrator *Orchestrator,
	formatter *Formatter,
	callbacks *Callbacks,
	transport bot.Transport,
	settings repository.SettingsStore,
	metrics repository.MetricsStore,
	quota *limit.Quota,
	verifier limit.PaymentVerifier,
	owner string,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		gate:         gate,
		validator:    validator,
		orchestrator: orchestrator,
		formatter:    formatter,
		callbacks:    callbacks,
		transport:    transport,
		settings:     settings,
		metrics:      metrics,
		quota:        quota,
		verifier:     verifier,
		owner:        owner,
		startedAt:    time.Now(),
		logger:       logger,
	}
}

func (c *Controller) HandleMessage(ctx context.Context, req *model.JobRequest) {
	decision := c.gate.Check(ctx, req)
	switch decision.Verdict {
	case auth.DenySilent:
		return
	case auth.Deny:
		if _, err := c.transport.SendText(req.ChatID, decision.Reply, req.MessageID); err != nil {
			c.logger.Warn("denial reply failed", zap.Error(err))
		}
		return
	}

	if err := c.metrics.IncrementDaily(ctx, req.ChatID); err != nil {
		c.logger.Warn("daily counter increment failed", zap.Error(err))
	}

	url, ok := c.validator.Validate(ctx, req)
	if !ok {
		return
	}
	req.URL = url

	settings, err := c.settings.Get(ctx, req.ChatID)
	if err != nil {
		c.logger.Warn("settings lookup failed, using defaults", zap.Error(err))
		settings = model.DefaultSettings(req.ChatID)
	}

	start := time.Now()
	status := "success"
	if err := c.orchestrator.Execute(ctx, req, settings.Resolution, c.formatter.Deliver); err != nil {
		status = "error"
		c.logger.Error("job failed", zap.String("url", req.URL), zap.Error(err))
	}
	jobDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	jobsTotal.WithLabelValues(status).Inc()
}

func (c *Controller) HandleCallback(ctx context.Context, ev *model.CallbackEvent) {
	c.callbacks.Handle(ctx, ev)
}

func (c *Controller) HandleCommand(ctx context.Context, command, args string, req *model.JobRequest) {
	c.actionBestEffort(req.ChatID, bot.ActionTyping)

	switch command {
	case "start":
		greeting := c.quota.Greeting() + textStart + "\n\n" + c.quota.Remaining(ctx, req.ChatID)
		c.sendBestEffort(req.ChatID, greeting)
	case "help":
		c.sendBestEffort(req.ChatID, textHelp)
	case "about":
		c.sendBestEffort(req.ChatID, textAbout)
	case "terms":
		c.sendBestEffort(req.ChatID, textTerms)
	case "settings":
		c.sendSettings(ctx, req)
	case "vip":
		c.handleVIP(ctx, args, req)
	case "ping":
		c.handlePing(ctx, req)
	}
}

func (c *Controller) sendSettings(ctx context.Context, req *model.JobRequest) {
	settings, err := c.settings.Get(ctx, req.ChatID)
	if err != nil {
		c.logger.Warn("settings lookup failed, using defaults", zap.Error(err))
		settings = model.DefaultSettings(req.ChatID)
	}

	markup := bot.Markup{
		{
			{Label: "send as document", Data: string(model.SendMethodDocument)},
			{Label: "send as video", Data: string(model.SendMethodVideo)},
		},
		{
			{Label: "High Quality", Data: string(model.ResolutionHigh)},
			{Label: "Medium Quality", Data: string(model.ResolutionMedium)},
			{Label: "Low Quality", Data: string(model.ResolutionLow)},
		},
	}

	text := fmt.Sprintf(textSettings, settings.Method, settings.Resolution)
	if _, err := c.transport.SendMarkup(req.ChatID, text, markup); err != nil {
		c.logger.Warn("settings reply failed", zap.Error(err))
	}
}

func (c *Controller) handleVIP(ctx context.Context, args string, req *model.JobRequest) {
	if args == "" {
		c.sendBestEffort(req.ChatID, textVip)
		return
	}

	status, err := c.transport.SendText(req.ChatID, textVipVerifying, req.MessageID)
	if err != nil {
		c.logger.Warn("vip reply failed", zap.Error(err))
		return
	}
	msg, err := c.verifier.Verify(ctx, req.ChatID, args)
	if err != nil {
		c.logger.Error("payment verification failed", zap.Error(err))
		msg = "Payment verification is unavailable right now, try again later."
	}
	if err := c.transport.EditText(status, msg); err != nil {
		c.logger.Warn("vip edit failed", zap.Error(err))
	}
}

func (c *Controller) handlePing(ctx context.Context, req *model.JobRequest) {
	info := fmt.Sprintf("Uptime: %s\nGo: %s\nGoroutines: %d",
		time.Since(c.startedAt).Round(time.Second), runtime.Version(), runtime.NumGoroutine())

	// The owner additionally receives the usage report workbook.
	if c.owner == "" || req.Username != c.owner {
		c.sendBestEffort(req.ChatID, info)
		return
	}

	snapshot, err := c.metrics.Snapshot(ctx)
	if err != nil {
		c.logger.Error("metrics snapshot failed", zap.Error(err))
		c.sendBestEffort(req.ChatID, info)
		return
	}

	dir, err := os.MkdirTemp("", "ytdl-report-")
	if err != nil {
		c.sendBestEffort(req.ChatID, info)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "usage.xlsx")
	if err := report.ToExcel(snapshot, path); err != nil {
		c.logger.Error("usage report export failed", zap.Error(err))
		c.sendBestEffort(req.ChatID, info)
		return
	}

	att := bot.Attachment{Path: path, Caption: info}
	if err := c.transport.SendDocument(req.ChatID, att, nil, nil); err != nil {
		c.logger.Error("usage report send failed", zap.Error(err))
	}
}

func (c *Controller) sendBestEffort(chatID int64, text string) {
	if _, err := c.transport.SendText(chatID, text, 0); err != nil {
		c.logger.Warn("reply failed", zap.Error(err))
	}
}

func (c *Controller) actionBestEffort(chatID int64, action string) {
	if err := c.transport.SendChatAction(chatID, action); err != nil {
		c.logger.Debug("chat action failed", zap.Error(err))
	}
}
