// Package downloader acquires audio from video URLs by driving the yt-dlp
// executable. The rest of the system treats acquisition as opaque: one
// source in, one local audio file path out.
package downloader

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Downloader wraps the yt-dlp binary for audio-only acquisition.
type Downloader struct {
	logger *zap.Logger
	binary string
}

// NewDownloader creates a Downloader using yt-dlp from PATH. The binary can
// be overridden with TUBESCRIBE_YTDLP for testing or pinned installs.
func NewDownloader(logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	binary := os.Getenv("TUBESCRIBE_YTDLP")
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Downloader{logger: logger, binary: binary}
}

// Acquire downloads the best available audio-only stream for source into
// destDir and returns the local file path yt-dlp reports after all
// post-processing has finished.
func (d *Downloader) Acquire(ctx context.Context, source, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory %s: %w", destDir, err)
	}

	args := buildArgs(source, destDir, os.Getenv("FFMPEG_LOCATION"))

	d.logger.Info("downloading audio",
		zap.String("source", source),
		zap.String("dest_dir", destDir))
	d.logger.Debug("yt-dlp invocation",
		zap.String("binary", d.binary),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, d.binary, args...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("yt-dlp failed: %s", lastLine(string(ee.Stderr)))
		}
		return "", fmt.Errorf("failed to run yt-dlp: %w", err)
	}

	// --print after_move:filepath emits the final path as the last line.
	audioPath := lastLine(string(out))
	if audioPath == "" {
		return "", fmt.Errorf("yt-dlp reported no output file for %s", source)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("downloaded file missing at %s: %w", audioPath, err)
	}

	d.logger.Info("audio saved", zap.String("path", audioPath))
	return audioPath, nil
}

// buildArgs assembles the yt-dlp argument list: prefer native audio-only
// (m4a when available), restricted safe filenames with an 80-char title
// stem, playlist URLs reduced to the single video, and generous retries.
func buildArgs(source, destDir, ffmpegLocation string) []string {
	args := []string{
		"--format", "bestaudio[ext=m4a]/bestaudio/best",
		"--output", filepath.Join(destDir, "%(title).80s.%(ext)s"),
		"--restrict-filenames",
		"--no-playlist",
		"--retries", "10",
		"--fragment-retries", "10",
		"--concurrent-fragments", "5",
		"--no-simulate",
		"--no-progress",
		"--print", "after_move:filepath",
	}
	if ffmpegLocation != "" {
		args = append(args, "--ffmpeg-location", ffmpegLocation)
	}
	return append(args, source)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
