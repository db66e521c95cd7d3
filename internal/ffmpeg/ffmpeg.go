// Package ffmpeg resolves the FFmpeg installation once at process startup
// so yt-dlp can extract audio without any user setup. Job logic never reads
// or mutates this state; it only sees the resolved availability.
package ffmpeg

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Resolution reports where FFmpeg was found, if anywhere.
type Resolution struct {
	BinDir    string
	Available bool
}

// Ensure makes FFmpeg discoverable by yt-dlp. An already-set FFMPEG_LOCATION
// is respected; otherwise PATH and well-known install directories are
// probed, and on success FFMPEG_LOCATION is exported and PATH extended.
func Ensure(logger *zap.Logger) Resolution {
	if logger == nil {
		logger = zap.NewNop()
	}

	if loc := os.Getenv("FFMPEG_LOCATION"); loc != "" {
		appendToPath(loc)
		logger.Debug("using preset FFMPEG_LOCATION", zap.String("dir", loc))
		return Resolution{BinDir: loc, Available: true}
	}

	binDir, ok := locate()
	if !ok {
		logger.Warn("ffmpeg not found on PATH or in known install locations")
		return Resolution{}
	}

	os.Setenv("FFMPEG_LOCATION", binDir)
	appendToPath(binDir)
	logger.Info("ffmpeg resolved", zap.String("dir", binDir))
	return Resolution{BinDir: binDir, Available: true}
}

// InstallHint returns per-platform installation instructions shown when
// FFmpeg cannot be resolved.
func InstallHint() string {
	return "FFmpeg not found. Please install it or set FFMPEG_LOCATION.\n" +
		"Windows (PowerShell): winget install FFmpeg.FFmpeg -e\n" +
		"macOS: brew install ffmpeg\n" +
		"Ubuntu/Debian: sudo apt install ffmpeg"
}

func locate() (string, bool) {
	name := binaryName()

	if found, err := exec.LookPath(name); err == nil {
		return filepath.Dir(found), true
	}

	for _, dir := range candidateDirs() {
		if isFile(filepath.Join(dir, name)) {
			return dir, true
		}
	}

	return "", false
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

// candidateDirs lists well-known install locations checked after PATH.
func candidateDirs() []string {
	switch runtime.GOOS {
	case "windows":
		var dirs []string
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			// Winget installs (Gyan and community builds)
			globs, _ := filepath.Glob(filepath.Join(local, "Microsoft", "WinGet", "Packages", "Gyan.FFmpeg_*", "ffmpeg-*-full_build", "bin"))
			dirs = append(dirs, globs...)
			globs, _ = filepath.Glob(filepath.Join(local, "Microsoft", "WinGet", "Packages", "FFmpeg.FFmpeg_*", "ffmpeg-*", "bin"))
			dirs = append(dirs, globs...)
		}
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			dirs = append(dirs, filepath.Join(profile, "scoop", "apps", "ffmpeg", "current", "bin"))
		}
		dirs = append(dirs,
			`C:\ProgramData\chocolatey\bin`,
			`C:\ffmpeg\bin`,
			`C:\Program Files\ffmpeg\bin`,
			`C:\Program Files (x86)\ffmpeg\bin`,
		)
		return dirs
	case "darwin":
		return []string{"/opt/homebrew/bin", "/usr/local/bin"}
	default:
		return []string{"/usr/bin", "/usr/local/bin", "/bin", "/snap/bin"}
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func appendToPath(dir string) {
	path := os.Getenv("PATH")
	for _, existing := range strings.Split(path, string(os.PathListSeparator)) {
		if existing == dir {
			return
		}
	}
	os.Setenv("PATH", path+string(os.PathListSeparator)+dir)
}
