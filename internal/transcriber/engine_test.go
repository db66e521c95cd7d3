package transcriber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubescribe/internal/transcript"
)

func TestDecodeResult(t *testing.T) {
	t.Run("should decode helper output and trim segment text", func(t *testing.T) {
		raw := []byte(`{
			"language": "en",
			"duration": 12.75,
			"segments": [
				{"start": 0.0, "end": 2.2, "text": " Hello there. "},
				{"start": 2.2, "end": 5.0, "text": "General Kenobi."}
			]
		}`)

		result, err := decodeResult(raw)

		require.NoError(t, err)
		assert.Equal(t, "en", result.Language)
		assert.Equal(t, 12.75, result.DurationSeconds)
		assert.Equal(t, []transcript.Segment{
			{Start: 0.0, End: 2.2, Text: "Hello there."},
			{Start: 2.2, End: 5.0, Text: "General Kenobi."},
		}, result.Segments)
	})

	t.Run("should decode empty segment list", func(t *testing.T) {
		result, err := decodeResult([]byte(`{"language": "ja", "duration": 0.0, "segments": []}`))

		require.NoError(t, err)
		assert.Equal(t, "ja", result.Language)
		assert.Empty(t, result.Segments)
	})

	t.Run("should fail on malformed json", func(t *testing.T) {
		_, err := decodeResult([]byte("Traceback (most recent call last):"))

		assert.Error(t, err)
	})
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "RuntimeError: model not found", lastLine("loading model\nRuntimeError: model not found\n"))
	assert.Equal(t, "single", lastLine("single"))
	assert.Equal(t, "", lastLine("  \n \n"))
}

func TestNewFasterWhisperEngine(t *testing.T) {
	t.Run("should default to python3", func(t *testing.T) {
		t.Setenv("TUBESCRIBE_PYTHON", "")

		engine := NewFasterWhisperEngine(nil)

		assert.Equal(t, "python3", engine.python)
	})

	t.Run("should honor interpreter override", func(t *testing.T) {
		t.Setenv("TUBESCRIBE_PYTHON", "/opt/venv/bin/python")

		engine := NewFasterWhisperEngine(nil)

		assert.Equal(t, "/opt/venv/bin/python", engine.python)
	})
}
