package config

import "os"

// Default values for configuration.
const (
	DefaultOutput    = "text"
	DefaultAlignment = "left"
)

// Environment variable names.
const (
	EnvOutput    = "PARSEKIT_OUTPUT"
	EnvCacheFile = "PARSEKIT_CACHE_FILE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: DefaultOutput,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if out := os.Getenv(EnvOutput); out != "" {
		c.Output = out
	}
	if path := os.Getenv(EnvCacheFile); path != "" {
		c.CacheFile = path
	}
}
