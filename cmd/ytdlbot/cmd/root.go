package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ytdl-bot/cmd/ytdlbot/cmd/download"
	"ytdl-bot/cmd/ytdlbot/cmd/export"
	"ytdl-bot/cmd/ytdlbot/cmd/serve"
	"ytdl-bot/cmd/ytdlbot/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytdlbot",
	Short: "A Telegram bot that downloads media links and sends them back",
	Long: `A Telegram bot that downloads media links and sends them back.
- Users send a link, the bot fetches it with yt-dlp and delivers the file
- Delivery format and resolution are per-user settings changed via inline buttons
- Daily usage counters live in redis and reset at midnight`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(download.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
