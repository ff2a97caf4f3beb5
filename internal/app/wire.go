//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"ytdl-bot/internal/app/auth"
	"ytdl-bot/internal/app/bot"
	"ytdl-bot/internal/app/media"
	"ytdl-bot/internal/app/pipeline"
	"ytdl-bot/internal/config"
)

// InitializeApp builds the full object graph: stores, transport, gate,
// pipeline stages and the update dispatcher.
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	wire.Build(
		provideSettingsStore,
		provideMetricsStore,
		provideTelegram,
		provideGate,
		provideDownloader,
		provideFFmpeg,
		provideQuota,
		provideVerifier,
		provideArchiver,
		provideValidator,
		provideOrchestrator,
		provideFormatter,
		provideCallbacks,
		provideController,
		provideDispatcher,
		provideAdmin,
		wire.Bind(new(bot.Transport), new(*bot.Telegram)),
		wire.Bind(new(auth.MembershipChecker), new(*bot.Telegram)),
		wire.Bind(new(pipeline.Prober), new(*media.FFmpeg)),
		wire.Bind(new(pipeline.AudioExtractor), new(*media.FFmpeg)),
		wire.Struct(new(App), "*"),
	)
	return &App{}, nil
}
