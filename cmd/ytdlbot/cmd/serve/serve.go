package serve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ytdl-bot/internal/app"
	"ytdl-bot/internal/app/logging"
	"ytdl-bot/internal/config"
)

var dev bool

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot: update dispatcher, daily quota reset and admin server",
	RunE:  run,
}

func init() {
	Cmd.Flags().BoolVar(&dev, "dev", false, "development logging")
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.MustNewLogger(dev)
	defer logger.Sync()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	logger.Info("authorized users", zap.Int64s("ids", cfg.AuthorizedUsers))

	a, err := app.InitializeApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	// Per-user daily counters reset at midnight. ResetDaily is idempotent,
	// so an external scheduler can drive it too.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 0 * * *", func() {
		if err := a.Metrics.ResetDaily(context.Background()); err != nil {
			logger.Error("daily reset failed", zap.Error(err))
		} else {
			logger.Info("daily counters reset")
		}
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		if err := a.Admin.Start(); err != nil {
			logger.Error("admin server failed", zap.Error(err))
		}
	}()

	printBanner(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = a.Dispatcher.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := a.Admin.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("admin shutdown failed", zap.Error(shutdownErr))
	}

	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}

func printBanner(cfg *config.Config) {
	banner := `
▌ ▌▜▘▛▀▖▌  ▛▀▖▞▀▖▀▛▘
▝▞ ▐ ▌ ▌▌  ▙▄▘▌ ▌ ▌
 ▌ ▐ ▌ ▌▌  ▌ ▌▌ ▌ ▌
 ▘ ▀▘▀▀ ▀▀▘▀▀ ▝▀  ▘
`
	fmt.Println(banner)
	fmt.Printf("VIP mode: %v\n", cfg.EnableVIP)
}
