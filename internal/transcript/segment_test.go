package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentValidate(t *testing.T) {
	t.Run("should accept a well-formed segment", func(t *testing.T) {
		seg := &Segment{Start: 1.0, End: 2.5, Text: "hello"}

		assert.NoError(t, seg.Validate())
	})

	t.Run("should accept zero-length span", func(t *testing.T) {
		seg := &Segment{Start: 2.0, End: 2.0, Text: "beat"}

		assert.NoError(t, seg.Validate())
	})

	t.Run("should reject empty text after trimming", func(t *testing.T) {
		seg := &Segment{Start: 0, End: 1, Text: "   "}

		assert.Error(t, seg.Validate())
	})

	t.Run("should reject negative start", func(t *testing.T) {
		seg := &Segment{Start: -0.5, End: 1, Text: "x"}

		assert.Error(t, seg.Validate())
	})

	t.Run("should reject end before start", func(t *testing.T) {
		seg := &Segment{Start: 3, End: 2, Text: "x"}

		assert.Error(t, seg.Validate())
	})
}

func TestSegmentTrimmedText(t *testing.T) {
	seg := &Segment{Start: 0, End: 1, Text: "  spaced out \n"}

	assert.Equal(t, "spaced out", seg.TrimmedText())
}
