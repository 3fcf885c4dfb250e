package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parsekit/parsekit/pkg/shellwords"
)

// TokenizeOptions holds command-line options for the tokenize command.
type TokenizeOptions struct {
	Output string
	Stdin  bool
	Bash   bool
}

// NewTokenizeCommand creates the tokenize command.
func NewTokenizeCommand() *cobra.Command {
	opts := &TokenizeOptions{}

	cmd := &cobra.Command{
		Use:   "tokenize [line]",
		Short: "Split a shell line into words",
		Long: `Split a line of shell input into words.

Unquoted whitespace separates words; single and double quotes group them and
are stripped from the result. With --bash the line is additionally split into
simple commands at pipes, logical operators, and semicolons, with redirects
and command substitutions recognized.

Example:
  parsekit tokenize 'echo "a b" c'
  parsekit tokenize --bash 'cat a.log | grep error > hits.txt'
  tail -1 history.txt | parsekit tokenize --stdin --bash`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.Stdin, "stdin", false, "Read lines from stdin")
	cmd.Flags().BoolVar(&opts.Bash, "bash", false, "Split into simple commands (pipes, redirects, connectors)")

	return cmd
}

func runTokenize(cmd *cobra.Command, args []string, opts *TokenizeOptions) error {
	if !opts.Stdin && len(args) == 0 {
		return fmt.Errorf("a line argument is required unless --stdin is set")
	}
	if opts.Stdin && len(args) > 0 {
		return fmt.Errorf("--stdin and a line argument are mutually exclusive")
	}

	if !opts.Stdin {
		return tokenizeLine(args[0], opts)
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := tokenizeLine(scanner.Text(), opts); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return nil
}

func tokenizeLine(line string, opts *TokenizeOptions) error {
	if opts.Bash {
		commands, err := shellwords.SplitCommands(line)
		if err != nil {
			return err
		}
		return outputCommands(commands, opts)
	}

	words, err := shellwords.Split(line)
	if err != nil {
		return err
	}
	return outputWords(words, opts)
}

func outputWords(words []string, opts *TokenizeOptions) error {
	if opts.Output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		return encoder.Encode(words)
	}

	for i, word := range words {
		fmt.Printf("%d: %s\n", i, word)
	}
	return nil
}

// commandJSON mirrors shellwords.Command with stable JSON field names.
type commandJSON struct {
	Argv      []string       `json:"argv"`
	Redirects []redirectJSON `json:"redirects,omitempty"`
	Connector string         `json:"connector,omitempty"`
}

type redirectJSON struct {
	Op     string `json:"op"`
	Target string `json:"target"`
}

func outputCommands(commands []shellwords.Command, opts *TokenizeOptions) error {
	if opts.Output == "json" {
		out := make([]commandJSON, 0, len(commands))
		for _, c := range commands {
			cj := commandJSON{Argv: c.Argv, Connector: string(c.Connector)}
			for _, r := range c.Redirects {
				cj.Redirects = append(cj.Redirects, redirectJSON{Op: r.Op, Target: r.Target})
			}
			out = append(out, cj)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	for i, c := range commands {
		fmt.Printf("command %d: %s\n", i, strings.Join(c.Argv, " "))
		for _, r := range c.Redirects {
			fmt.Printf("  redirect: %s %s\n", r.Op, r.Target)
		}
		if c.Connector != shellwords.ConnectorNone {
			fmt.Printf("  connector: %s\n", c.Connector)
		}
	}
	return nil
}
