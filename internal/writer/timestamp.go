package writer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fractional-second separators for the two cue formats.
const (
	SeparatorSRT = ','
	SeparatorVTT = '.'
)

// EncodeTimestamp converts a non-negative seconds offset into the fixed-width
// clock format HH:MM:SS<sep>mmm used by SRT (comma) and WebVTT (dot) cues.
// The value is rounded to the nearest millisecond, half up. Hours are not
// wrapped at 24, so durations beyond a day render with wider hour fields.
func EncodeTimestamp(seconds float64, sep rune) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", fmt.Errorf("timestamp must be finite, got %v", seconds)
	}
	if seconds < 0 {
		return "", fmt.Errorf("timestamp cannot be negative, got %v", seconds)
	}

	millis := int64(math.Floor(seconds*1000 + 0.5))
	h := millis / 3600000
	m := (millis % 3600000) / 60000
	s := (millis % 60000) / 1000
	ms := millis % 1000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, ms), nil
}

// ParseTimestamp converts an SRT or WebVTT cue timestamp back into seconds.
// Both comma and dot millisecond separators are accepted.
func ParseTimestamp(ts string) (float64, error) {
	normalized := strings.Replace(ts, ",", ".", 1)

	parts := strings.Split(normalized, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q: expected HH:MM:SS with separator", ts)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in timestamp %q: %w", ts, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in timestamp %q: %w", ts, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in timestamp %q: %w", ts, err)
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}
