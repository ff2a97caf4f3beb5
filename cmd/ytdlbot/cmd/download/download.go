package download

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"ytdl-bot/internal/app/downloader"
	"ytdl-bot/internal/app/logging"
	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/util/files"
)

var (
	outputDir  string
	resolution string
	binary     string
)

// Cmd represents the download command: a one-off local fetch without the bot,
// useful for debugging format selection.
var Cmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download one link to a local directory",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "downloads", "output directory")
	Cmd.Flags().StringVarP(&resolution, "resolution", "r", "high", "resolution: high, medium or low")
	Cmd.Flags().StringVar(&binary, "ytdlp", "", "path to the yt-dlp binary")
}

func run(cmd *cobra.Command, args []string) error {
	if !model.ValidResolution(resolution) {
		return fmt.Errorf("unknown resolution %q", resolution)
	}
	if err := files.CheckAndCreateDirectory(outputDir); err != nil {
		return err
	}

	logger := logging.MustNewLogger(false)
	defer logger.Sync()

	container := mpb.New(mpb.WithWidth(64))
	bar := container.AddBar(100,
		mpb.PrependDecorators(decor.Name("downloading ")),
		mpb.AppendDecorators(decor.Percentage()),
	)

	dl := downloader.NewYtDlp(binary, logger)
	result := dl.Fetch(cmd.Context(), args[0], outputDir, model.Resolution(resolution), &barSink{bar: bar})

	bar.SetTotal(100, true)
	container.Wait()

	if !result.Success {
		return fmt.Errorf("download failed: %s", result.Error)
	}
	for _, path := range result.Files {
		fmt.Println(path)
	}
	return nil
}

type barSink struct {
	bar *mpb.Bar
}

func (s *barSink) Report(percent float64) {
	s.bar.SetCurrent(int64(percent))
}
