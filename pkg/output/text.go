package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "parsekit: %d lines scanned, %d with timestamps, %d cache hits\n",
		report.Summary.LinesScanned,
		report.Summary.LinesWithTimestamps,
		report.Summary.CacheHits)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Date Scan Report ===")
	fmt.Fprintln(w)

	for i := range report.Files {
		f.formatFile(&report.Files[i], w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d lines scanned, %d with timestamps, %d without\n",
		report.Summary.LinesScanned,
		report.Summary.LinesWithTimestamps,
		report.Summary.LinesScanned-report.Summary.LinesWithTimestamps)
	fmt.Fprintf(w, "Cache: %d hits, %d format attempts\n",
		report.Summary.CacheHits,
		report.Summary.FormatAttempts)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	return nil
}

func (f *TextFormatter) formatFile(file *FileReport, w io.Writer) {
	fmt.Fprintf(w, "%s: %d/%d lines with timestamps\n", file.Path, file.Found, file.Lines)

	if file.First != nil && file.Last != nil {
		fmt.Fprintf(w, "  Range: %s .. %s\n",
			file.First.Format(time.RFC3339),
			file.Last.Format(time.RFC3339))
	}

	if f.opts.Verbose && len(file.Formats) > 0 {
		names := make([]string, 0, len(file.Formats))
		for name := range file.Formats {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %d\n", name, file.Formats[name])
		}
	}

	fmt.Fprintln(w)
}
