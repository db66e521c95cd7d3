package batch

import (
	"fmt"
	"os"
	"strings"
)

// ParseSources filters raw input lines into an ordered, de-duplicated list
// of sources. Blank lines and #-comment lines are dropped, surrounding quote
// characters are stripped, and duplicates keep only the first occurrence.
func ParseSources(lines []string) []string {
	seen := make(map[string]struct{})
	sources := make([]string, 0, len(lines))

	for _, line := range lines {
		source := strings.TrimSpace(line)
		if source == "" || strings.HasPrefix(source, "#") {
			continue
		}
		source = strings.Trim(source, `"'`)
		if source == "" {
			continue
		}
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		sources = append(sources, source)
	}

	return sources
}

// ReadSourcesFile reads raw source lines from a file, one per line.
// Filtering and de-duplication are left to ParseSources so inline arguments
// can be merged in first.
func ReadSourcesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}
	return strings.Split(string(data), "\n"), nil
}
