package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/parsekit/parsekit/pkg/config"
)

// ExitCode is set by commands to indicate the result.
var ExitCode = 0

// readInput reads a file argument, or stdin when the path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path is expected
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes result data to a file, or stdout when the path is empty.
func writeOutput(path string, data []byte) error {
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	// #nosec G306 - output files don't need restrictive permissions
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// loadConfig loads the optional config file, falling back to defaults.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(ctx, path)
}

// commandContext returns the command's context, defaulting to Background.
func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
