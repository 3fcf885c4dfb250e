package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/parsekit/parsekit/pkg/config"
	"github.com/parsekit/parsekit/pkg/dateline"
	"github.com/parsekit/parsekit/pkg/output"
)

// DateOptions holds command-line options shared by the date subcommands.
type DateOptions struct {
	Output        string
	Config        string
	CacheFile     string
	PastWindow    string
	FutureWindow  string
	PreferLongest bool
	Alignment     string
	Verbose       bool
	Quiet         bool
}

// NewDateCommand creates the date command with its scan and merge
// subcommands.
func NewDateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "date",
		Short: "Find timestamps of unknown format in lines of text",
		Long: `Find timestamps in lines of text without knowing their format up front.

Each line is probed against an ordered table of known timestamp formats.
The winning format is memoized per line shape, so uniformly formatted files
cost one probe per line after the first.`,
	}

	cmd.AddCommand(newDateScanCommand())
	cmd.AddCommand(newDateMergeCommand())

	return cmd
}

func newDateScanCommand() *cobra.Command {
	opts := &DateOptions{}

	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Scan files for timestamps and report what was found",
		Long: `Scan files line by line for timestamps and report per-file counts,
formats used, and cache effectiveness. Use "-" to read stdin.

Example:
  parsekit date scan /var/log/app.log
  parsekit date scan --cache-file ~/.parsekit-cache.yaml '/var/log/*.log'
  journalctl -b | parsekit date scan -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDateScan(cmd, args, opts)
		},
	}

	addDateFlags(cmd, opts)
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-format counts and timings")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func newDateMergeCommand() *cobra.Command {
	opts := &DateOptions{}

	cmd := &cobra.Command{
		Use:   "merge <file>...",
		Short: "Merge files chronologically by their line timestamps",
		Long: `Merge lines from multiple files into a single chronological stream.
Lines without a recognizable timestamp are skipped.

Example:
  parsekit date merge web1.log web2.log web3.log
  parsekit date merge -o json '/var/log/cluster/*.log'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDateMerge(cmd, args, opts)
		},
	}

	addDateFlags(cmd, opts)

	return cmd
}

func addDateFlags(cmd *cobra.Command, opts *DateOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json)")
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file (extra formats, scan windows)")
	cmd.Flags().StringVar(&opts.CacheFile, "cache-file", "", "Persist the format cache to this file across runs")
	cmd.Flags().StringVar(&opts.PastWindow, "past-window", "", "Reject timestamps older than this (duration, or \"off\")")
	cmd.Flags().StringVar(&opts.FutureWindow, "future-window", "", "Reject timestamps further ahead than this (duration, or \"off\")")
	cmd.Flags().BoolVar(&opts.PreferLongest, "prefer-longest", false, "Try every format and keep the longest match")
	cmd.Flags().StringVar(&opts.Alignment, "alignment", "", "Tie-break between equal candidates (left|right)")
}

func runDateScan(cmd *cobra.Command, args []string, opts *DateOptions) error {
	ctx := commandContext(cmd.Context())
	start := time.Now()

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return err
	}

	scanner, cache, err := buildScanner(cfg, opts)
	if err != nil {
		return err
	}

	sources, err := resolveSources(args)
	if err != nil {
		return err
	}

	report := &output.Report{
		Metadata: output.Metadata{
			ConfigFile: opts.Config,
			Sources:    sources,
			CacheFile:  cacheFilePath(cfg, opts),
			ScannedAt:  start,
		},
	}

	for _, src := range sources {
		fileReport, err := scanSource(ctx, scanner, src)
		if err != nil {
			return err
		}
		report.Files = append(report.Files, *fileReport)
	}

	stats := scanner.Stats()
	report.Summary = output.Summary{
		LinesScanned:        stats.Lines,
		LinesWithTimestamps: stats.Found,
		FormatAttempts:      stats.Attempts,
		CacheHits:           stats.CacheHits,
	}
	report.Metadata.Duration = time.Since(start)

	if err := saveCache(cache, cacheFilePath(cfg, opts)); err != nil {
		return err
	}

	formatter, err := output.New(outputMode(cfg, opts), output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if !report.HasTimestamps() {
		ExitCode = 1
	}
	return nil
}

// mergedLine is one line of JSON merge output.
type mergedLine struct {
	Time   time.Time `json:"time"`
	Source string    `json:"source"`
	Line   int       `json:"line"`
	Text   string    `json:"text"`
}

func runDateMerge(cmd *cobra.Command, args []string, opts *DateOptions) error {
	ctx := commandContext(cmd.Context())

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return err
	}

	scanner, cache, err := buildScanner(cfg, opts)
	if err != nil {
		return err
	}

	files, err := dateline.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding sources: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matched patterns: %v", args)
	}

	// One source per file, all sharing the scanner so the format cache
	// warms across files.
	sources := make([]dateline.LineSource, len(files))
	for i, file := range files {
		sources[i] = dateline.NewFileSource([]string{file}, scanner)
	}
	merged := dateline.NewMergedSource(sources...)
	defer merged.Close()

	asJSON := outputMode(cfg, opts) == "json"
	encoder := json.NewEncoder(os.Stdout)

	for {
		line, err := merged.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("merging sources: %w", err)
		}

		if asJSON {
			if err := encoder.Encode(mergedLine{
				Time:   line.Time,
				Source: line.Source,
				Line:   line.LineNum,
				Text:   line.Raw,
			}); err != nil {
				return err
			}
		} else {
			fmt.Println(line.Raw)
		}
	}

	return saveCache(cache, cacheFilePath(cfg, opts))
}

// buildScanner assembles a dateline.Scanner from config and flags.
// Flags win over config values.
func buildScanner(cfg *config.Config, opts *DateOptions) (*dateline.Scanner, *dateline.Cache, error) {
	var scanOpts []dateline.Option

	if formats, err := customFormats(cfg); err != nil {
		return nil, nil, err
	} else if formats != nil {
		scanOpts = append(scanOpts, dateline.WithFormats(formats))
	}

	past, ok, err := windowValue(opts.PastWindow, cfg.Scan.PastWindow, dateline.DefaultPastWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("past-window: %w", err)
	}
	if ok {
		scanOpts = append(scanOpts, dateline.WithPastWindow(past))
	}

	future, ok, err := windowValue(opts.FutureWindow, cfg.Scan.FutureWindow, dateline.DefaultFutureWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("future-window: %w", err)
	}
	if ok {
		scanOpts = append(scanOpts, dateline.WithFutureWindow(future))
	}

	if opts.PreferLongest || cfg.Scan.PreferLongest {
		scanOpts = append(scanOpts, dateline.WithPreferLongest(true))
	}

	alignment := opts.Alignment
	if alignment == "" {
		alignment = cfg.Scan.Alignment
	}
	switch alignment {
	case "", "left":
	case "right":
		scanOpts = append(scanOpts, dateline.WithAlignment(dateline.AlignRight))
	default:
		return nil, nil, fmt.Errorf("invalid alignment %q (must be left or right)", alignment)
	}

	cache := dateline.NewCache()
	if path := cacheFilePath(cfg, opts); path != "" {
		if err := cache.LoadFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("loading cache: %w", err)
		}
	}
	scanOpts = append(scanOpts, dateline.WithCache(cache))

	return dateline.New(scanOpts...), cache, nil
}

// customFormats prepends config-supplied formats to the default table.
func customFormats(cfg *config.Config) ([]*dateline.Format, error) {
	if len(cfg.DateFormats) == 0 {
		return nil, nil
	}

	formats := make([]*dateline.Format, 0, len(cfg.DateFormats))
	for i := range cfg.DateFormats {
		fc := &cfg.DateFormats[i]
		formats = append(formats, &dateline.Format{
			Name:       fc.Name,
			Pattern:    fc.CompiledPattern(),
			PatternStr: fc.Pattern,
			Layout:     fc.Layout,
		})
	}
	return append(formats, dateline.DefaultFormats()...), nil
}

// windowValue resolves a plausibility window from flag, config, and
// default, in that order. The second return is false when the built-in
// default should stand.
func windowValue(flag string, cfgWindow config.Window, def time.Duration) (time.Duration, bool, error) {
	if flag != "" {
		if flag == "off" {
			return 0, true, nil
		}
		d, err := time.ParseDuration(flag)
		if err != nil {
			return 0, false, err
		}
		if d < 0 {
			return 0, false, fmt.Errorf("must not be negative, got %q", flag)
		}
		return d, true, nil
	}

	if cfgWindow.Set() {
		if cfgWindow.Off {
			return 0, true, nil
		}
		return cfgWindow.Duration, true, nil
	}

	return def, false, nil
}

func cacheFilePath(cfg *config.Config, opts *DateOptions) string {
	if opts.CacheFile != "" {
		return opts.CacheFile
	}
	return cfg.CacheFile
}

func saveCache(cache *dateline.Cache, path string) error {
	if path == "" || cache.Len() == 0 {
		return nil
	}
	if err := cache.SaveFile(path); err != nil {
		return fmt.Errorf("saving cache: %w", err)
	}
	return nil
}

func outputMode(cfg *config.Config, opts *DateOptions) string {
	if opts.Output != "" {
		return opts.Output
	}
	return cfg.Output
}

// resolveSources expands glob patterns, passing "-" (stdin) through.
func resolveSources(args []string) ([]string, error) {
	var patterns []string
	var sources []string
	stdin := false

	for _, arg := range args {
		if arg == "-" {
			stdin = true
			continue
		}
		patterns = append(patterns, arg)
	}

	if len(patterns) > 0 {
		files, err := dateline.ExpandGlobs(patterns)
		if err != nil {
			return nil, fmt.Errorf("expanding sources: %w", err)
		}
		sources = files
	}
	if stdin {
		sources = append(sources, "-")
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no files matched patterns: %v", args)
	}
	return sources, nil
}

// scanSource reads one source line by line and folds the results into a
// file report.
func scanSource(ctx context.Context, scanner *dateline.Scanner, src string) (*output.FileReport, error) {
	var r io.Reader
	if src == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(src) // #nosec G304 -- user-provided input path is expected
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", src, err)
		}
		defer f.Close()
		r = f
	}

	results, err := scanner.ScanReader(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", src, err)
	}

	report := &output.FileReport{Path: src, Lines: len(results)}
	for _, res := range results {
		if res.Match != nil {
			report.Observe(res.Match.FormatName, res.Match.Time)
		}
	}
	return report, nil
}
