package app

import (
	"path/filepath"

	"go.uber.org/zap"

	"ytdl-bot/internal/api"
	"ytdl-bot/internal/app/archive"
	"ytdl-bot/internal/app/auth"
	"ytdl-bot/internal/app/bot"
	"ytdl-bot/internal/app/downloader"
	"ytdl-bot/internal/app/limit"
	"ytdl-bot/internal/app/media"
	"ytdl-bot/internal/app/pipeline"
	"ytdl-bot/internal/app/repository"
	"ytdl-bot/internal/app/repository/pg"
	redisrepo "ytdl-bot/internal/app/repository/redis"
	"ytdl-bot/internal/app/repository/sqlite"
	"ytdl-bot/internal/app/util/files"
	"ytdl-bot/internal/config"
)

// App bundles the long-lived pieces the serve command runs.
type App struct {
	Dispatcher *bot.Dispatcher
	Admin      *api.Server
	Settings   repository.SettingsStore
	Metrics    repository.MetricsStore
}

func (a *App) Close() {
	a.Settings.Close()
	a.Metrics.Close()
}

func provideSettingsStore(cfg *config.Config) (repository.SettingsStore, error) {
	if cfg.DBBackend == "postgres" {
		return pg.NewSettingsDB(cfg.PostgresDSN)
	}
	if err := files.CheckAndCreateDirectory(filepath.Dir(cfg.SQLitePath)); err != nil {
		return nil, err
	}
	return sqlite.NewSettingsDB(cfg.SQLitePath)
}

func provideMetricsStore(cfg *config.Config) (repository.MetricsStore, error) {
	return redisrepo.NewMetricsDB(cfg.RedisAddr, cfg.RedisPassword)
}

func provideTelegram(cfg *config.Config, logger *zap.Logger) (*bot.Telegram, error) {
	return bot.NewTelegram(cfg.BotToken, logger)
}

func provideGate(cfg *config.Config, checker auth.MembershipChecker, logger *zap.Logger) *auth.Gate {
	return auth.NewGate(cfg.AuthorizedUsers, cfg.RequiredMembership, cfg.MembershipFailOpen, checker, logger)
}

func provideDownloader(cfg *config.Config, logger *zap.Logger) downloader.Downloader {
	return downloader.NewYtDlp(cfg.YtdlpBinary, logger)
}

func provideQuota(cfg *config.Config, metrics repository.MetricsStore, logger *zap.Logger) *limit.Quota {
	return limit.NewQuota(metrics, cfg.DailyQuota, cfg.EnableVIP, logger)
}

func provideVerifier(cfg *config.Config, logger *zap.Logger) limit.PaymentVerifier {
	return limit.NewTokenVerifier(cfg.PaymentTokens, logger)
}

func provideArchiver(cfg *config.Config, logger *zap.Logger) (archive.Uploader, error) {
	return archive.New(cfg.Minio, logger)
}

func provideValidator(metrics repository.MetricsStore, transport bot.Transport, logger *zap.Logger) *pipeline.Validator {
	return pipeline.NewValidator(metrics, transport, logger)
}

func provideOrchestrator(cfg *config.Config, dl downloader.Downloader, transport bot.Transport,
	metrics repository.MetricsStore, logger *zap.Logger) *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(dl, transport, metrics, cfg.TempRoot, logger)
}

func provideFormatter(transport bot.Transport, settings repository.SettingsStore, metrics repository.MetricsStore,
	prober pipeline.Prober, quota *limit.Quota, archiver archive.Uploader, logger *zap.Logger) *pipeline.Formatter {
	return pipeline.NewFormatter(transport, settings, metrics, prober, quota, archiver, logger)
}

func provideCallbacks(cfg *config.Config, transport bot.Transport, settings repository.SettingsStore,
	metrics repository.MetricsStore, extractor pipeline.AudioExtractor, logger *zap.Logger) *pipeline.Callbacks {
	return pipeline.NewCallbacks(transport, settings, metrics, extractor, cfg.TempRoot, logger)
}

func provideController(cfg *config.Config, gate *auth.Gate, validator *pipeline.Validator,
	orchestrator *pipeline.Orchestrator, formatter *pipeline.Formatter, callbacks *pipeline.Callbacks,
	transport bot.Transport, settings repository.SettingsStore, metrics repository.MetricsStore,
	quota *limit.Quota, verifier limit.PaymentVerifier, logger *zap.Logger) *pipeline.Controller {
	return pipeline.NewController(gate, validator, orchestrator, formatter, callbacks,
		transport, settings, metrics, quota, verifier, cfg.Owner, logger)
}

func provideDispatcher(cfg *config.Config, tg *bot.Telegram, controller *pipeline.Controller, logger *zap.Logger) *bot.Dispatcher {
	return bot.NewDispatcher(tg, controller, cfg.Workers, logger)
}

func provideAdmin(cfg *config.Config, metrics repository.MetricsStore, logger *zap.Logger) *api.Server {
	return api.NewServer(cfg.AdminAddr, metrics, logger)
}

func provideFFmpeg(logger *zap.Logger) *media.FFmpeg {
	return media.NewFFmpeg(logger)
}
