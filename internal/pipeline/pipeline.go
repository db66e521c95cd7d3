// Package pipeline composes the per-job flow: acquire audio, transcribe it,
// and write the three transcript artifacts.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"tubescribe/internal/transcriber"
	"tubescribe/internal/writer"
)

// Acquirer downloads one source to a local audio file.
type Acquirer interface {
	Acquire(ctx context.Context, source, destDir string) (string, error)
}

// Result describes one successfully processed job.
type Result struct {
	Source          string
	AudioPath       string
	BaseName        string
	Artifacts       writer.ArtifactSet
	Language        string
	DurationSeconds float64
	SegmentCount    int
}

// Pipeline runs the acquire -> transcribe -> write flow for single jobs.
// It is used by one sequential runner at a time and is not safe for
// concurrent Process calls.
type Pipeline struct {
	acquirer    Acquirer
	engine      transcriber.Engine
	opts        transcriber.Options
	downloadDir string
	outputDir   string
	logger      *zap.Logger
	usedBases   map[string]int
}

// NewPipeline creates a Pipeline writing artifacts under outputDir and
// downloads under downloadDir.
func NewPipeline(acquirer Acquirer, engine transcriber.Engine, opts transcriber.Options, downloadDir, outputDir string, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		acquirer:    acquirer,
		engine:      engine,
		opts:        opts,
		downloadDir: downloadDir,
		outputDir:   outputDir,
		logger:      logger,
		usedBases:   make(map[string]int),
	}
}

// Process handles one source end to end. Every stage failure aborts only
// this job and carries the stage name in its message.
func (p *Pipeline) Process(ctx context.Context, source string) (Result, error) {
	downloadStart := time.Now()
	audioPath, err := p.acquirer.Acquire(ctx, source, p.downloadDir)
	if err != nil {
		return Result{}, fmt.Errorf("download audio: %w", err)
	}
	downloadElapsed := time.Since(downloadStart)

	transcribeStart := time.Now()
	res, err := p.engine.Transcribe(ctx, audioPath, p.opts)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe audio: %w", err)
	}
	transcribeElapsed := time.Since(transcribeStart)

	baseName := p.claimBaseName(stem(audioPath))

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return Result{}, fmt.Errorf("write transcripts: %w", err)
	}
	artifacts, err := writer.WriteAll(p.outputDir, baseName, res.Segments)
	if err != nil {
		return Result{}, fmt.Errorf("write transcripts: %w", err)
	}

	p.logger.Info("job pipeline complete",
		zap.String("source", source),
		zap.String("base_name", baseName),
		zap.String("language", res.Language),
		zap.Float64("audio_duration_seconds", res.DurationSeconds),
		zap.Int("segments", len(res.Segments)),
		zap.Duration("download_time", downloadElapsed),
		zap.Duration("transcribe_time", transcribeElapsed))

	return Result{
		Source:          source,
		AudioPath:       audioPath,
		BaseName:        baseName,
		Artifacts:       artifacts,
		Language:        res.Language,
		DurationSeconds: res.DurationSeconds,
		SegmentCount:    len(res.Segments),
	}, nil
}

// claimBaseName reserves a base name for this batch. When two sources derive
// the same audio stem, later jobs get a numeric suffix instead of silently
// overwriting the earlier job's artifacts.
func (p *Pipeline) claimBaseName(base string) string {
	n := p.usedBases[base]
	p.usedBases[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n+1)
}

// stem strips the directory and extension from an audio path.
func stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
