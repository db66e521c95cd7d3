package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRecordAndRecent(t *testing.T) {
	t.Run("should round-trip a recorded run", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()

		run := Run{
			Source:          "https://youtu.be/AAA",
			BaseName:        "My_Video",
			Status:          "succeeded",
			Language:        "en",
			DurationSeconds: 123.4,
		}
		require.NoError(t, store.Record(ctx, run))

		runs, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)

		got := runs[0]
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, run.Source, got.Source)
		assert.Equal(t, run.BaseName, got.BaseName)
		assert.Equal(t, run.Status, got.Status)
		assert.Equal(t, run.Language, got.Language)
		assert.Equal(t, run.DurationSeconds, got.DurationSeconds)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("should return newest runs first and honor the limit", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()
		base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 5; i++ {
			require.NoError(t, store.Record(ctx, Run{
				Source:    "src",
				BaseName:  string(rune('a' + i)),
				Status:    "succeeded",
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		runs, err := store.Recent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "e", runs[0].BaseName)
		assert.Equal(t, "d", runs[1].BaseName)
		assert.Equal(t, "c", runs[2].BaseName)
	})

	t.Run("should record failed runs with their description", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()

		require.NoError(t, store.Record(ctx, Run{
			Source: "https://youtu.be/BBB",
			Status: "failed",
			Err:    "download audio: HTTP 403",
		}))

		runs, err := store.Recent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "failed", runs[0].Status)
		assert.Equal(t, "download audio: HTTP 403", runs[0].Err)
	})

	t.Run("should return empty list for a fresh ledger", func(t *testing.T) {
		store := openTestStore(t)

		runs, err := store.Recent(context.Background(), 10)

		require.NoError(t, err)
		assert.Empty(t, runs)
	})

	t.Run("should create parent directories for the db path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

		store, err := Open(path)

		require.NoError(t, err)
		assert.Equal(t, path, store.Path())
		store.Close()
	})
}
