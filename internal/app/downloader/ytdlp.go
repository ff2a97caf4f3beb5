package downloader

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/util/files"
)

var progressRe = regexp.MustCompile(`\[download\]\s+(\d+(?:\.\d+)?)%`)

// YtDlp uses the local yt-dlp binary to fetch media.
type YtDlp struct {
	binaryPath string
	logger     *zap.Logger
}

func NewYtDlp(binaryPath string, logger *zap.Logger) *YtDlp {
	if binaryPath == "" {
		binaryPath = "yt-dlp" // assumes yt-dlp is in PATH
	}
	return &YtDlp{binaryPath: binaryPath, logger: logger}
}

func formatFor(resolution model.Resolution) string {
	switch resolution {
	case model.ResolutionLow:
		return "best[height<=480][ext=mp4]/best[height<=480]/best"
	case model.ResolutionMedium:
		return "best[height<=720][ext=mp4]/best[height<=720]/best"
	default:
		return "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	}
}

func (d *YtDlp) Fetch(ctx context.Context, url, destDir string, resolution model.Resolution, sink ProgressSink) model.DownloadResult {
	if sink == nil {
		sink = NopSink{}
	}

	cmd := exec.CommandContext(ctx, d.binaryPath,
		"-f", formatFor(resolution),
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--newline",
		"--no-warnings",
		url,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return model.DownloadFailure(err.Error())
	}
	if err := cmd.Start(); err != nil {
		return model.DownloadFailure(err.Error())
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if percent, ok := parsePercent(scanner.Text()); ok {
			sink.Report(percent)
		}
	}

	if err := cmd.Wait(); err != nil {
		d.logger.Warn("yt-dlp failed", zap.String("url", url), zap.Error(err))
		detail := stderr.String()
		if detail == "" {
			detail = err.Error()
		}
		return model.DownloadFailure(detail)
	}

	paths, err := files.ListFiles(destDir)
	if err != nil {
		return model.DownloadFailure(err.Error())
	}
	if len(paths) == 0 {
		return model.DownloadFailure("yt-dlp produced no files")
	}

	sink.Report(100)
	return model.DownloadSuccess(paths)
}

// parsePercent extracts the percentage from one yt-dlp --newline progress
// line, e.g. "[download]  42.3% of 10.00MiB at 1.00MiB/s".
func parsePercent(line string) (float64, bool) {
	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	percent, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return percent, true
}
