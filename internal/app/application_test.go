package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tubescribe/internal/batch"
	"tubescribe/internal/config"
	"tubescribe/internal/history"
	"tubescribe/internal/transcriber"
	"tubescribe/internal/transcript"
)

// fakeAcquirer names the audio file after the source so each job derives a
// distinct base name.
type fakeAcquirer struct {
	failFor map[string]bool
}

func (f *fakeAcquirer) Acquire(ctx context.Context, source, destDir string) (string, error) {
	if f.failFor[source] {
		return "", errors.New("HTTP 403")
	}
	return filepath.Join(destDir, fmt.Sprintf("%s.m4a", source)), nil
}

type fakeEngine struct{}

func (fakeEngine) Transcribe(ctx context.Context, audioPath string, opts transcriber.Options) (transcriber.Result, error) {
	return transcriber.Result{
		Language:        "en",
		DurationSeconds: 1.5,
		Segments:        []transcript.Segment{{Start: 0, End: 1.5, Text: "hello"}},
	}, nil
}

func testConfig(t *testing.T) *config.Configuration {
	t.Helper()
	cfg := config.NewConfiguration()
	cfg.Set("output.dir", t.TempDir())
	cfg.Set("download.dir", t.TempDir())
	return cfg
}

func newTestApplication(t *testing.T, acquirer *fakeAcquirer, store *history.Store) *Application {
	t.Helper()
	return NewApplicationWithComponents(
		testConfig(t),
		zap.NewNop(),
		batch.NopObserver{},
		acquirer,
		fakeEngine{},
		transcriber.Options{ModelSize: "base", Device: "cpu", BeamSize: 5},
		store,
	)
}

func TestApplicationRunBatch(t *testing.T) {
	t.Run("should de-duplicate raw lines before running", func(t *testing.T) {
		application := newTestApplication(t, &fakeAcquirer{}, nil)

		summary, err := application.RunBatch(context.Background(), []string{"a", "a", "#comment", "", "b"})

		require.NoError(t, err)
		assert.Equal(t, batch.Summary{OK: 2, Failed: 0}, summary)
	})

	t.Run("should fail fast on empty input", func(t *testing.T) {
		application := newTestApplication(t, &fakeAcquirer{}, nil)

		_, err := application.RunBatch(context.Background(), []string{"", "# nothing here"})

		assert.ErrorIs(t, err, batch.ErrNoSources)
	})

	t.Run("should isolate per-job failures and report true counts", func(t *testing.T) {
		acquirer := &fakeAcquirer{failFor: map[string]bool{"bad": true}}
		application := newTestApplication(t, acquirer, nil)

		summary, err := application.RunBatch(context.Background(), []string{"good", "bad", "also-good"})

		require.NoError(t, err)
		assert.Equal(t, batch.Summary{OK: 2, Failed: 1}, summary)
	})

	t.Run("should record outcomes to the run ledger", func(t *testing.T) {
		store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		defer store.Close()

		acquirer := &fakeAcquirer{failFor: map[string]bool{"bad": true}}
		application := newTestApplication(t, acquirer, store)

		_, err = application.RunBatch(context.Background(), []string{"good", "bad"})
		require.NoError(t, err)

		runs, err := store.Recent(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)

		statuses := map[string]string{}
		for _, run := range runs {
			statuses[run.Source] = run.Status
		}
		assert.Equal(t, string(batch.StatusSucceeded), statuses["good"])
		assert.Equal(t, string(batch.StatusFailed), statuses["bad"])
	})
}

func TestApplicationShutdown(t *testing.T) {
	t.Run("should close the history store", func(t *testing.T) {
		store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		application := newTestApplication(t, &fakeAcquirer{}, store)

		assert.NoError(t, application.Shutdown())
	})

	t.Run("should tolerate missing history store", func(t *testing.T) {
		application := newTestApplication(t, &fakeAcquirer{}, nil)

		assert.NoError(t, application.Shutdown())
	})
}
