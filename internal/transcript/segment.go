package transcript

import (
	"fmt"
	"strings"
)

// Segment represents a single transcribed utterance span as produced by the
// speech-to-text engine, with offsets in seconds from the start of the audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate checks if the Segment has valid values
func (s *Segment) Validate() error {
	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if s.Start < 0 {
		return fmt.Errorf("start cannot be negative")
	}

	if s.End < s.Start {
		return fmt.Errorf("end must not be before start")
	}

	return nil
}

// TrimmedText returns the segment text with surrounding whitespace removed,
// which is the form all writers emit.
func (s *Segment) TrimmedText() string {
	return strings.TrimSpace(s.Text)
}
