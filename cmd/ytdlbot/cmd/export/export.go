package export

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ytdl-bot/internal/app/report"
	redisrepo "ytdl-bot/internal/app/repository/redis"
	"ytdl-bot/internal/config"
)

var output string

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the usage counters to an xlsx workbook",
	RunE:  run,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "usage.xlsx", "output file path")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}

	store, err := redisrepo.NewMetricsDB(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshot, err := store.Snapshot(context.Background())
	if err != nil {
		return err
	}

	if err := report.ToExcel(snapshot, output); err != nil {
		return err
	}
	fmt.Printf("Exported %d counters and %d users to %s\n",
		len(snapshot.Counters), len(snapshot.Daily), output)
	return nil
}
