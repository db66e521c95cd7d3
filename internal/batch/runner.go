// Package batch runs an ordered list of transcription jobs one at a time,
// isolating per-job failures and reporting aggregate results.
package batch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoSources is returned when a batch is started with an empty source list.
var ErrNoSources = errors.New("no sources provided")

// Summary reports aggregate batch results.
type Summary struct {
	OK     int
	Failed int
}

// AllOK reports whether every job in the batch succeeded.
func (s Summary) AllOK() bool {
	return s.Failed == 0
}

// String renders the end-of-batch summary line.
func (s Summary) String() string {
	return fmt.Sprintf("Summary: %d ok / %d failed", s.OK, s.Failed)
}

// Outcome describes what the per-job pipeline produced on success.
type Outcome struct {
	AudioPath string
	BaseName  string
}

// PerJob runs the full pipeline for one source. Any error aborts only that
// job; the runner never inspects the error beyond its message.
type PerJob func(ctx context.Context, source string) (Outcome, error)

// Observer receives progress events as the batch advances. Indexes are
// 1-based. Implementations run on the runner's goroutine and should return
// quickly.
type Observer interface {
	OnJobStart(idx, total int, source string)
	OnJobDone(idx, total int)
	OnJobError(idx, total int, message string)
	OnBatchComplete(summary Summary)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) OnJobStart(idx, total int, source string)  {}
func (NopObserver) OnJobDone(idx, total int)                  {}
func (NopObserver) OnJobError(idx, total int, message string) {}
func (NopObserver) OnBatchComplete(summary Summary)           {}

// Runner executes jobs strictly sequentially in input order. Transcription
// already saturates the available compute internally, so running jobs in
// parallel would contend rather than help.
type Runner struct {
	logger   *zap.Logger
	observer Observer
}

// NewRunner creates a Runner that reports progress only through the logger.
func NewRunner(logger *zap.Logger) *Runner {
	return NewRunnerWithObserver(logger, NopObserver{})
}

// NewRunnerWithObserver creates a Runner that also posts progress events to
// the given observer.
func NewRunnerWithObserver(logger *zap.Logger, observer Observer) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Runner{logger: logger, observer: observer}
}

// Run attempts every source in order. One job's failure never aborts the
// batch; the failure is recorded and the runner moves on. Context
// cancellation is honored only between jobs: remaining jobs are skipped,
// no summary is emitted, and the context error is returned.
func (r *Runner) Run(ctx context.Context, sources []string, perJob PerJob) (Summary, error) {
	if len(sources) == 0 {
		return Summary{}, ErrNoSources
	}

	total := len(sources)
	var summary Summary

	for i, source := range sources {
		select {
		case <-ctx.Done():
			r.logger.Info("batch interrupted, skipping remaining jobs",
				zap.Int("completed", i),
				zap.Int("total", total))
			return summary, ctx.Err()
		default:
		}

		job := NewJob(source)
		if err := job.Transition(StatusRunning); err != nil {
			return summary, err
		}

		r.observer.OnJobStart(i+1, total, source)
		r.logger.Info("job starting",
			zap.Int("index", i+1),
			zap.Int("total", total),
			zap.String("job_id", job.ID),
			zap.String("source", source))

		outcome, err := perJob(ctx, source)
		if err != nil {
			if ferr := job.Fail(err.Error()); ferr != nil {
				return summary, ferr
			}
			summary.Failed++
			r.observer.OnJobError(i+1, total, err.Error())
			r.logger.Error("job failed",
				zap.Int("index", i+1),
				zap.Int("total", total),
				zap.String("job_id", job.ID),
				zap.String("source", source),
				zap.Error(err))
			continue
		}

		job.AudioPath = outcome.AudioPath
		job.BaseName = outcome.BaseName
		if err := job.Transition(StatusSucceeded); err != nil {
			return summary, err
		}
		summary.OK++
		r.observer.OnJobDone(i+1, total)
		r.logger.Info("job done",
			zap.Int("index", i+1),
			zap.Int("total", total),
			zap.String("job_id", job.ID),
			zap.String("base_name", outcome.BaseName))
	}

	r.observer.OnBatchComplete(summary)
	r.logger.Info("batch complete",
		zap.Int("ok", summary.OK),
		zap.Int("failed", summary.Failed))

	return summary, nil
}
