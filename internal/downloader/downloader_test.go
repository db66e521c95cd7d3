package downloader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildArgs(t *testing.T) {
	t.Run("should request audio-only with safe filenames and final path printing", func(t *testing.T) {
		args := buildArgs("https://youtu.be/AAA", "downloads", "")

		assert.Contains(t, args, "bestaudio[ext=m4a]/bestaudio/best")
		assert.Contains(t, args, filepath.Join("downloads", "%(title).80s.%(ext)s"))
		assert.Contains(t, args, "--restrict-filenames")
		assert.Contains(t, args, "--no-playlist")
		assert.Contains(t, args, "--print")
		assert.Contains(t, args, "after_move:filepath")
		assert.Equal(t, "https://youtu.be/AAA", args[len(args)-1], "source must be the final argument")
		assert.NotContains(t, args, "--ffmpeg-location")
	})

	t.Run("should pass ffmpeg location when resolved", func(t *testing.T) {
		args := buildArgs("https://youtu.be/AAA", "downloads", "/opt/homebrew/bin")

		idx := -1
		for i, a := range args {
			if a == "--ffmpeg-location" {
				idx = i
			}
		}
		assert.GreaterOrEqual(t, idx, 0)
		assert.Equal(t, "/opt/homebrew/bin", args[idx+1])
	})
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "downloads/My_Video.m4a", lastLine("[download] progress\ndownloads/My_Video.m4a\n"))
	assert.Equal(t, "only", lastLine("only"))
	assert.Equal(t, "", lastLine("\n\n"))
}

func TestNewDownloader(t *testing.T) {
	t.Run("should default to yt-dlp from PATH", func(t *testing.T) {
		t.Setenv("TUBESCRIBE_YTDLP", "")

		d := NewDownloader(nil)

		assert.Equal(t, "yt-dlp", d.binary)
	})

	t.Run("should honor binary override", func(t *testing.T) {
		t.Setenv("TUBESCRIBE_YTDLP", "/usr/local/bin/yt-dlp-nightly")

		d := NewDownloader(nil)

		assert.Equal(t, "/usr/local/bin/yt-dlp-nightly", d.binary)
	})
}
