// Package config provides configuration loading and validation for parsekit.
package config

import (
	"fmt"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Output is the default output mode for CLI commands ("text" or "json").
	Output string `yaml:"output,omitempty"`

	// DateFormats are extra timestamp formats tried before the built-in
	// table when scanning lines for dates.
	DateFormats []FormatConfig `yaml:"date_formats,omitempty"`

	// Scan tunes the date scanner.
	Scan ScanConfig `yaml:"scan,omitempty"`

	// CacheFile is the path of the on-disk date-format cache. Supports
	// ${VAR} environment expansion.
	CacheFile string `yaml:"cache_file,omitempty"`
}

// FormatConfig defines a single user-supplied timestamp format.
type FormatConfig struct {
	// Name identifies the format in scan reports.
	Name string `yaml:"name"`

	// Pattern is a regex that captures the timestamp portion of a line.
	// Must contain at least one capture group.
	Pattern string `yaml:"pattern"`

	// Layout is the Go time layout string for parsing the captured
	// timestamp, or one of the pseudo-layouts UNIX_SECONDS and
	// UNIX_MILLIS for epoch values.
	Layout string `yaml:"layout"`

	// compiledPattern is the pre-compiled regex (populated during validation).
	compiledPattern *regexp.Regexp
}

// CompiledPattern returns the pre-compiled regex pattern.
func (f *FormatConfig) CompiledPattern() *regexp.Regexp {
	return f.compiledPattern
}

// ScanConfig tunes the timestamp scanner.
type ScanConfig struct {
	// PastWindow rejects candidate timestamps further in the past than
	// this. Zero keeps the built-in default; "off" disables the check.
	PastWindow Window `yaml:"past_window,omitempty"`

	// FutureWindow rejects candidate timestamps further in the future
	// than this. Zero keeps the built-in default; "off" disables the check.
	FutureWindow Window `yaml:"future_window,omitempty"`

	// PreferLongest makes the scanner try every format and keep the
	// longest match instead of stopping at the first hit.
	PreferLongest bool `yaml:"prefer_longest,omitempty"`

	// Alignment breaks ties between equally long matches: "left" keeps
	// the earliest match on the line, "right" the latest.
	Alignment string `yaml:"alignment,omitempty"`
}

// Window is a duration that additionally accepts "off" to disable a
// plausibility check entirely.
type Window struct {
	// Duration is the window size. Meaningless when Off is set.
	Duration time.Duration

	// Off disables the check.
	Off bool

	set bool
}

// Set reports whether the window was present in the config file.
func (w Window) Set() bool {
	return w.set
}

// UnmarshalYAML accepts either a duration string ("48h", "30s") or the
// literal "off".
func (w *Window) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	w.set = true
	if raw == "off" {
		w.Off = true
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid window %q: %w", raw, err)
	}
	if d < 0 {
		return fmt.Errorf("window must not be negative, got %q", raw)
	}
	w.Duration = d
	return nil
}
