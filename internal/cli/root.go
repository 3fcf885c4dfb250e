// Package cli provides the command-line interface for parsekit.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsekit/parsekit/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "parsekit",
		Short: "Parse structured data, shell input, and timestamped lines",
		Long: `Parsekit is a toolkit for the text formats that turn up around systems work.

It handles:
  - Structured data (parse, search, edit, and convert JSON and XML)
  - Shell input (tokenize lines, split bash compound commands)
  - Timestamped lines (find dates of unknown format, merge files chronologically)

The date scanner memoizes the winning format per line shape, so files with
uniform formatting are scanned with a single probe per line after the first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewTokenizeCommand())
	rootCmd.AddCommand(commands.NewDateCommand())
	rootCmd.AddCommand(commands.NewJSONCommand())
	rootCmd.AddCommand(commands.NewXMLCommand())
	rootCmd.AddCommand(commands.NewConvertCommand())
	rootCmd.AddCommand(commands.NewTableCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
