// Package writer turns ordered transcript segments into the three sibling
// output artifacts: plain text, SRT, and WebVTT.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tubescribe/internal/transcript"
)

// ArtifactSet records the three sibling files sharing one base name.
type ArtifactSet struct {
	BaseName string
	TXT      string
	SRT      string
	VTT      string
}

// Paths returns the artifact paths in a fixed order for logging.
func (a ArtifactSet) Paths() []string {
	return []string{a.TXT, a.SRT, a.VTT}
}

// WriteTXT writes one trimmed line of text per segment, no timestamps.
// An empty segment sequence produces an empty file.
func WriteTXT(path string, segments []transcript.Segment) error {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.TrimmedText())
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write txt file %s: %w", path, err)
	}
	return nil
}

// WriteSRT writes SubRip cues: a 1-based sequential index, the timing line
// with comma millisecond separators, the trimmed text, and a blank line.
func WriteSRT(path string, segments []transcript.Segment) error {
	var b strings.Builder
	for i, seg := range segments {
		start, err := EncodeTimestamp(seg.Start, SeparatorSRT)
		if err != nil {
			return fmt.Errorf("invalid start time in segment %d: %w", i+1, err)
		}
		end, err := EncodeTimestamp(seg.End, SeparatorSRT)
		if err != nil {
			return fmt.Errorf("invalid end time in segment %d: %w", i+1, err)
		}

		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("\n")
		b.WriteString(start)
		b.WriteString(" --> ")
		b.WriteString(end)
		b.WriteString("\n")
		b.WriteString(seg.TrimmedText())
		b.WriteString("\n\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write srt file %s: %w", path, err)
	}
	return nil
}

// WriteVTT writes WebVTT cues: the literal WEBVTT header, then per segment
// the timing line with dot millisecond separators (no cue index), the
// trimmed text, and a blank line.
func WriteVTT(path string, segments []transcript.Segment) error {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for i, seg := range segments {
		start, err := EncodeTimestamp(seg.Start, SeparatorVTT)
		if err != nil {
			return fmt.Errorf("invalid start time in segment %d: %w", i+1, err)
		}
		end, err := EncodeTimestamp(seg.End, SeparatorVTT)
		if err != nil {
			return fmt.Errorf("invalid end time in segment %d: %w", i+1, err)
		}

		b.WriteString(start)
		b.WriteString(" --> ")
		b.WriteString(end)
		b.WriteString("\n")
		b.WriteString(seg.TrimmedText())
		b.WriteString("\n\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write vtt file %s: %w", path, err)
	}
	return nil
}

// WriteAll writes all three artifacts for one base name into outputDir and
// returns the resulting set. Each file is fully truncated and rewritten.
func WriteAll(outputDir, baseName string, segments []transcript.Segment) (ArtifactSet, error) {
	set := ArtifactSet{
		BaseName: baseName,
		TXT:      filepath.Join(outputDir, baseName+".txt"),
		SRT:      filepath.Join(outputDir, baseName+".srt"),
		VTT:      filepath.Join(outputDir, baseName+".vtt"),
	}

	if err := WriteTXT(set.TXT, segments); err != nil {
		return set, err
	}
	if err := WriteSRT(set.SRT, segments); err != nil {
		return set, err
	}
	if err := WriteVTT(set.VTT, segments); err != nil {
		return set, err
	}
	return set, nil
}
