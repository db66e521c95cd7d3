// Package app wires configuration, external collaborators, and the batch
// runner into one orchestrator the CLI drives.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tubescribe/internal/batch"
	"tubescribe/internal/config"
	"tubescribe/internal/downloader"
	"tubescribe/internal/ffmpeg"
	"tubescribe/internal/gpu"
	"tubescribe/internal/history"
	"tubescribe/internal/pipeline"
	"tubescribe/internal/transcriber"
)

// Application orchestrates the full batch transcription flow.
type Application struct {
	config       *config.Configuration
	logger       *zap.Logger
	pipeline     *pipeline.Pipeline
	runner       *batch.Runner
	historyStore *history.Store
}

// NewApplication creates an application with production wiring: yt-dlp
// acquisition, faster-whisper transcription, and the SQLite run ledger.
// FFmpeg is resolved once here; a missing FFmpeg is fatal before any job
// starts since yt-dlp needs it for audio extraction.
func NewApplication(cfg *config.Configuration, logger *zap.Logger, observer batch.Observer) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if resolution := ffmpeg.Ensure(logger); !resolution.Available {
		return nil, fmt.Errorf("%s", ffmpeg.InstallHint())
	}

	device := gpu.NewGPUDetector(logger).ResolveDevice(cfg.GetDevice())
	opts := transcriber.Options{
		ModelSize: cfg.GetModelSize(),
		Device:    device,
		Language:  cfg.GetLanguage(),
		BeamSize:  cfg.GetBeamSize(),
	}

	acquirer := downloader.NewDownloader(logger)
	engine := transcriber.NewFasterWhisperEngine(logger)

	var store *history.Store
	if cfg.HistoryEnabled() {
		opened, err := history.Open(cfg.GetHistoryPath())
		if err != nil {
			// History is bookkeeping, not part of the job contract.
			logger.Warn("failed to open run history, continuing without it", zap.Error(err))
		} else {
			store = opened
		}
	}

	return NewApplicationWithComponents(cfg, logger, observer, acquirer, engine, opts, store), nil
}

// NewApplicationWithComponents creates an application from explicit
// collaborators, used by tests to substitute fakes.
func NewApplicationWithComponents(
	cfg *config.Configuration,
	logger *zap.Logger,
	observer batch.Observer,
	acquirer pipeline.Acquirer,
	engine transcriber.Engine,
	opts transcriber.Options,
	store *history.Store,
) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}

	pipe := pipeline.NewPipeline(acquirer, engine, opts, cfg.GetDownloadDir(), cfg.GetOutputDir(), logger)

	return &Application{
		config:       cfg,
		logger:       logger,
		pipeline:     pipe,
		runner:       batch.NewRunnerWithObserver(logger, observer),
		historyStore: store,
	}
}

// RunBatch parses the raw source lines and runs every resulting job in
// order. An empty source list fails before any job starts.
func (a *Application) RunBatch(ctx context.Context, rawLines []string) (batch.Summary, error) {
	sources := batch.ParseSources(rawLines)

	a.logger.Info("starting batch",
		zap.Int("sources", len(sources)),
		zap.String("model", a.config.GetModelSize()),
		zap.String("device", a.config.GetDevice()),
		zap.String("output_dir", a.config.GetOutputDir()))

	return a.runner.Run(ctx, sources, a.perJob)
}

// perJob runs the pipeline for one source and records the outcome to the
// run ledger. Ledger write failures never fail the job.
func (a *Application) perJob(ctx context.Context, source string) (batch.Outcome, error) {
	result, err := a.pipeline.Process(ctx, source)

	if a.historyStore != nil {
		run := history.Run{
			Source:          source,
			BaseName:        result.BaseName,
			Status:          string(batch.StatusSucceeded),
			Language:        result.Language,
			DurationSeconds: result.DurationSeconds,
		}
		if err != nil {
			run.Status = string(batch.StatusFailed)
			run.Err = err.Error()
		}
		if recErr := a.historyStore.Record(ctx, run); recErr != nil {
			a.logger.Warn("failed to record run history", zap.Error(recErr))
		}
	}

	if err != nil {
		return batch.Outcome{}, err
	}
	return batch.Outcome{AudioPath: result.AudioPath, BaseName: result.BaseName}, nil
}

// Shutdown releases resources held by the application.
func (a *Application) Shutdown() error {
	if a.historyStore != nil {
		if err := a.historyStore.Close(); err != nil {
			return fmt.Errorf("failed to close history store: %w", err)
		}
	}
	return nil
}
