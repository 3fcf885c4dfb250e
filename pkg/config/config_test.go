package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
output: json
date_formats:
  - name: audit-log
    pattern: 'audit\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]'
    layout: "2006-01-02 15:04:05"
scan:
  past_window: 48h
  prefer_longest: true
  alignment: right
cache_file: /tmp/parsekit-cache.yaml
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if len(cfg.DateFormats) != 1 {
		t.Fatalf("DateFormats = %d, want 1", len(cfg.DateFormats))
	}
	if cfg.DateFormats[0].Name != "audit-log" {
		t.Errorf("Format name = %q, want audit-log", cfg.DateFormats[0].Name)
	}
	if cfg.DateFormats[0].CompiledPattern() == nil {
		t.Error("Pattern not compiled during validation")
	}
	if !cfg.Scan.PastWindow.Set() || cfg.Scan.PastWindow.Duration != 48*time.Hour {
		t.Errorf("PastWindow = %+v, want 48h", cfg.Scan.PastWindow)
	}
	if cfg.Scan.FutureWindow.Set() {
		t.Error("FutureWindow should be unset")
	}
	if !cfg.Scan.PreferLongest {
		t.Error("PreferLongest should be true")
	}
	if cfg.Scan.Alignment != "right" {
		t.Errorf("Alignment = %q, want right", cfg.Scan.Alignment)
	}
	if cfg.CacheFile != "/tmp/parsekit-cache.yaml" {
		t.Errorf("CacheFile = %q", cfg.CacheFile)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	content := `invalid: yaml: content: [`
	path := writeTempFile(t, "invalid.yaml", content)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	path := writeTempFile(t, "empty.yaml", "")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.Scan.Alignment != DefaultAlignment {
		t.Errorf("Alignment = %q, want %q", cfg.Scan.Alignment, DefaultAlignment)
	}
}

func TestLoad_WindowOff(t *testing.T) {
	content := `
scan:
  past_window: "off"
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Scan.PastWindow.Set() || !cfg.Scan.PastWindow.Off {
		t.Errorf("PastWindow = %+v, want off", cfg.Scan.PastWindow)
	}
}

func TestLoad_NegativeWindow(t *testing.T) {
	content := `
scan:
  future_window: -5s
`
	path := writeTempFile(t, "config.yaml", content)
	if _, err := Load(context.Background(), path); err == nil {
		t.Error("Load() expected error for negative window")
	}
}

func TestValidate_InvalidOutput(t *testing.T) {
	cfg := &Config{Output: "xml"}
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for invalid output mode")
	}
}

func TestValidate_InvalidAlignment(t *testing.T) {
	cfg := &Config{Scan: ScanConfig{Alignment: "center"}}
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for invalid alignment")
	}
}

func TestValidate_Formats(t *testing.T) {
	tests := []struct {
		name    string
		format  FormatConfig
		wantErr bool
	}{
		{
			name: "valid format",
			format: FormatConfig{
				Name:    "custom",
				Pattern: `ts=(\d+)`,
				Layout:  "UNIX_SECONDS",
			},
			wantErr: false,
		},
		{
			name:    "missing name",
			format:  FormatConfig{Pattern: `(\d+)`, Layout: "2006"},
			wantErr: true,
		},
		{
			name:    "missing pattern",
			format:  FormatConfig{Name: "x", Layout: "2006"},
			wantErr: true,
		},
		{
			name:    "invalid regex",
			format:  FormatConfig{Name: "x", Pattern: `([`, Layout: "2006"},
			wantErr: true,
		},
		{
			name:    "no capture group",
			format:  FormatConfig{Name: "x", Pattern: `\d+`, Layout: "2006"},
			wantErr: true,
		},
		{
			name:    "missing layout",
			format:  FormatConfig{Name: "x", Pattern: `(\d+)`},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DateFormats: []FormatConfig{tt.format}}
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvOutput, "json")
	t.Setenv(EnvCacheFile, "/tmp/override-cache.yaml")

	path := writeTempFile(t, "config.yaml", "output: text\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("Output = %q, want env override json", cfg.Output)
	}
	if cfg.CacheFile != "/tmp/override-cache.yaml" {
		t.Errorf("CacheFile = %q, want env override", cfg.CacheFile)
	}
}

func TestLoadDefault_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvOutput, "json")
	t.Setenv(EnvCacheFile, "/tmp/override-cache.yaml")

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("Output = %q, want env override json", cfg.Output)
	}
	if cfg.CacheFile != "/tmp/override-cache.yaml" {
		t.Errorf("CacheFile = %q, want env override", cfg.CacheFile)
	}
}

func TestLoadDefault_InvalidEnvOutput(t *testing.T) {
	t.Setenv(EnvOutput, "csv")

	if _, err := LoadDefault(); err == nil {
		t.Error("LoadDefault() expected error for invalid output mode from environment")
	}
}

func TestCacheFileEnvExpansion(t *testing.T) {
	t.Setenv("PARSEKIT_TEST_DIR", "/srv/parsekit")

	cfg := &Config{CacheFile: "${PARSEKIT_TEST_DIR}"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.CacheFile != "/srv/parsekit" {
		t.Errorf("CacheFile = %q, want expanded value", cfg.CacheFile)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}
