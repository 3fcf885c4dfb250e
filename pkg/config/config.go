package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadDefault returns the default configuration with environment
// overrides applied. Used when no config file is given; PARSEKIT_*
// variables still take effect.
func LoadDefault() (*Config, error) {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and compiles regex patterns.
func Validate(cfg *Config) error {
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	switch cfg.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output: invalid mode %q (must be text or json)", cfg.Output)
	}

	for i := range cfg.DateFormats {
		if err := validateFormat(&cfg.DateFormats[i]); err != nil {
			return fmt.Errorf("date_formats[%d] (%s): %w", i, cfg.DateFormats[i].Name, err)
		}
	}

	if err := validateScan(&cfg.Scan); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	cfg.CacheFile = expandEnvVar(cfg.CacheFile)

	return nil
}

func validateFormat(f *FormatConfig) error {
	if f.Name == "" {
		return errors.New("name is required")
	}

	if f.Pattern == "" {
		return errors.New("pattern is required")
	}

	re, err := regexp.Compile(f.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}

	if re.NumSubexp() < 1 {
		return errors.New("pattern must have at least one capture group for the timestamp")
	}

	f.compiledPattern = re

	if f.Layout == "" {
		return errors.New("layout is required")
	}

	return nil
}

func validateScan(s *ScanConfig) error {
	if s.Alignment == "" {
		s.Alignment = DefaultAlignment
	}
	switch s.Alignment {
	case "left", "right":
	default:
		return fmt.Errorf("invalid alignment %q (must be left or right)", s.Alignment)
	}
	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
