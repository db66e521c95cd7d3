// Package transcriber runs speech-to-text over a local audio file. The
// model work is delegated to faster-whisper through an embedded Python
// helper that reports results as JSON.
package transcriber

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tubescribe/internal/transcript"
)

//go:embed assets/faster_whisper.py
var helperScript []byte

// Options configure one transcription run.
type Options struct {
	ModelSize string
	Device    string // cpu, cuda, or auto
	Language  string // empty means auto-detect
	BeamSize  int
}

// Result is the full output of transcribing one audio file.
type Result struct {
	Segments        []transcript.Segment
	Language        string
	DurationSeconds float64
}

// Engine converts an audio file into ordered transcript segments.
type Engine interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error)
}

// FasterWhisperEngine invokes faster-whisper via the embedded helper script.
type FasterWhisperEngine struct {
	logger *zap.Logger
	python string
}

// NewFasterWhisperEngine creates an engine using python3 from PATH. The
// interpreter can be overridden with TUBESCRIBE_PYTHON.
func NewFasterWhisperEngine(logger *zap.Logger) *FasterWhisperEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	python := os.Getenv("TUBESCRIBE_PYTHON")
	if python == "" {
		python = "python3"
	}
	return &FasterWhisperEngine{logger: logger, python: python}
}

// Transcribe runs the helper script over audioPath and decodes its JSON
// output. Model load and inference failures surface as one descriptive
// error carrying the helper's last stderr line.
func (e *FasterWhisperEngine) Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error) {
	scriptPath := filepath.Join(os.TempDir(), "tubescribe_faster_whisper.py")
	if err := os.WriteFile(scriptPath, helperScript, 0755); err != nil {
		return Result{}, fmt.Errorf("failed to write helper script: %w", err)
	}
	defer os.Remove(scriptPath)

	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", opts.ModelSize,
		"--device", opts.Device,
		"--beam-size", strconv.Itoa(opts.BeamSize),
	}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}

	e.logger.Info("transcribing audio",
		zap.String("audio_path", audioPath),
		zap.String("model", opts.ModelSize),
		zap.String("device", opts.Device))

	cmd := exec.CommandContext(ctx, e.python, args...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return Result{}, fmt.Errorf("faster-whisper failed: %s", lastLine(string(ee.Stderr)))
		}
		return Result{}, fmt.Errorf("failed to run faster-whisper helper: %w", err)
	}

	result, err := decodeResult(out)
	if err != nil {
		return Result{}, err
	}

	e.logger.Info("transcription complete",
		zap.String("language", result.Language),
		zap.Float64("duration_seconds", result.DurationSeconds),
		zap.Int("segments", len(result.Segments)))

	return result, nil
}

// helperOutput mirrors the JSON contract of assets/faster_whisper.py.
type helperOutput struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// decodeResult parses the helper's JSON into a Result, trimming segment
// text the way every writer expects it.
func decodeResult(raw []byte) (Result, error) {
	var parsed helperOutput
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to parse transcription output: %w", err)
	}

	result := Result{
		Language:        parsed.Language,
		DurationSeconds: parsed.Duration,
	}
	for _, seg := range parsed.Segments {
		result.Segments = append(result.Segments, transcript.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return result, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
