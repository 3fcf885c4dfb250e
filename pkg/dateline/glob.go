package dateline

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ExpandGlobs resolves a mix of scan-source paths and glob patterns into a
// deduplicated, sorted list of files. A pattern with no matches is kept as a
// literal path so opening it surfaces the file-not-found error.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var sources []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			matches = []string{pattern}
		}

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				sources = append(sources, match)
			}
		}
	}

	// Deterministic scan order regardless of pattern order
	sort.Strings(sources)

	return sources, nil
}
