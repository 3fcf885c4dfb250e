// Package output provides formatting and output generation for scan reports.
package output

import (
	"time"
)

// Report is the complete output of a date scan.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Files contains per-source results.
	Files []FileReport `json:"files"`

	// Metadata provides context about the scan.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// LinesScanned is the total number of lines read.
	LinesScanned int `json:"lines_scanned"`

	// LinesWithTimestamps is the number of lines a timestamp was found on.
	LinesWithTimestamps int `json:"lines_with_timestamps"`

	// FormatAttempts is the total number of format probes performed.
	FormatAttempts int `json:"format_attempts"`

	// CacheHits is the number of lines resolved from the shape cache
	// without a search.
	CacheHits int `json:"cache_hits"`
}

// FileReport holds the results for a single source.
type FileReport struct {
	// Path is the source path, or "-" for stdin.
	Path string `json:"path"`

	// Lines is the number of lines read from this source.
	Lines int `json:"lines"`

	// Found is the number of lines with a timestamp.
	Found int `json:"found"`

	// Formats counts matched lines per format name.
	Formats map[string]int `json:"formats,omitempty"`

	// First and Last bound the timestamps found in this source.
	First *time.Time `json:"first,omitempty"`
	Last  *time.Time `json:"last,omitempty"`
}

// Metadata provides context about the scan run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the inputs that were scanned.
	Sources []string `json:"sources"`

	// CacheFile is the on-disk cache used, if any.
	CacheFile string `json:"cache_file,omitempty"`

	// ScannedAt is when the scan was performed.
	ScannedAt time.Time `json:"scanned_at"`

	// Duration is how long the scan took.
	Duration time.Duration `json:"duration"`
}

// Observe folds a single matched timestamp into the file report.
func (f *FileReport) Observe(formatName string, ts time.Time) {
	f.Found++
	if f.Formats == nil {
		f.Formats = make(map[string]int)
	}
	f.Formats[formatName]++
	if f.First == nil || ts.Before(*f.First) {
		t := ts
		f.First = &t
	}
	if f.Last == nil || ts.After(*f.Last) {
		t := ts
		f.Last = &t
	}
}

// HasTimestamps returns true if any line carried a timestamp.
func (r *Report) HasTimestamps() bool {
	return r.Summary.LinesWithTimestamps > 0
}
