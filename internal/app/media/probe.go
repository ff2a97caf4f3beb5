package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ytdl-bot/internal/app/model"
)

// FFmpeg probes and transcodes media by shelling out to ffprobe/ffmpeg, the
// same way every downloader in this space does.
type FFmpeg struct {
	logger *zap.Logger
}

func NewFFmpeg(logger *zap.Logger) *FFmpeg {
	return &FFmpeg{logger: logger}
}

// Probe resolves dimensions and duration for videoPath and renders a midpoint
// thumbnail next to it. Probing is best effort: any failure degrades to the
// 1280x720/0s defaults and the job continues.
func (f *FFmpeg) Probe(videoPath string) model.MediaMetadata {
	meta := model.DefaultMetadata()

	cmd := exec.Command("ffprobe", "-v", "quiet", "-print_format", "json",
		"-show_streams", "-show_format", "-select_streams", "v", videoPath)
	output, err := cmd.Output()
	if err != nil {
		f.logger.Error("ffprobe failed", zap.String("path", videoPath), zap.Error(err))
	} else {
		var probe model.FFProbeOutput
		if err := json.Unmarshal(output, &probe); err != nil {
			f.logger.Error("ffprobe output unreadable", zap.Error(err))
		} else {
			for _, stream := range probe.Streams {
				if stream.Width > 0 && stream.Height > 0 {
					meta.Width = stream.Width
					meta.Height = stream.Height
				}
			}
			if d, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64); err == nil {
				meta.Duration = int(d)
			}
		}
	}

	meta.Thumb = f.thumbnail(videoPath, meta)
	return meta
}

// thumbnail grabs one frame at the midpoint of the (possibly zero) duration.
func (f *FFmpeg) thumbnail(videoPath string, meta model.MediaMetadata) string {
	thumb := videoPath + "-thumbnail.png"
	midpoint := fmt.Sprintf("%.2f", float64(meta.Duration)/2)

	cmd := exec.Command("ffmpeg", "-y", "-ss", midpoint, "-i", videoPath,
		"-vframes", "1", "-vf", fmt.Sprintf("scale=%d:-1", meta.Width), thumb)
	if err := cmd.Run(); err != nil {
		f.logger.Warn("thumbnail generation failed", zap.String("path", videoPath), zap.Error(err))
		return ""
	}
	return thumb
}

// ExtractAudio pulls the audio track of src into dst without re-encoding.
func (f *FFmpeg) ExtractAudio(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", src, "-vn", "-acodec", "copy", dst)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg error: %v, stderr: %s", err, stderr.String())
	}
	return nil
}
