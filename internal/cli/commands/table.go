package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parsekit/parsekit/pkg/table"
)

// TableOptions holds command-line options for the table command.
type TableOptions struct {
	Output    string
	HeaderRow int
	Head      int
	Tail      int
	Include   string
	Exclude   string
	Search    string
	Column    string
	Value     string
	Columns   string
	Bytes     string
}

// NewTableCommand creates the table command.
func NewTableCommand() *cobra.Command {
	opts := &TableOptions{}

	cmd := &cobra.Command{
		Use:   "table <file>",
		Short: "Parse, filter, and render whitespace-aligned command output",
		Long: `Parse whitespace-separated command output into a table, then filter,
search, and render it realigned. Use "-" to read stdin.

--head and --tail REMOVE rows from the top and bottom, which is how you strip
banner and summary rows from command output.

Example:
  ps aux | parsekit table - --header 1 --search root
  df -h | parsekit table - --header 1 --columns Filesystem,Use%
  parsekit table sizes.txt --header 1 --bytes SIZE`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVar(&opts.HeaderRow, "header", 0, "1-based row to use as column names (0 for none)")
	cmd.Flags().IntVar(&opts.Head, "head", 0, "Remove this many rows from the top")
	cmd.Flags().IntVar(&opts.Tail, "tail", 0, "Remove this many rows from the bottom")
	cmd.Flags().StringVar(&opts.Include, "include", "", "Keep only rows containing this word")
	cmd.Flags().StringVar(&opts.Exclude, "exclude", "", "Drop rows containing this word")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Keep rows with this word in any cell")
	cmd.Flags().StringVar(&opts.Column, "column", "", "Search only this column (with --value)")
	cmd.Flags().StringVar(&opts.Value, "value", "", "Value to search the column for (with --column)")
	cmd.Flags().StringVar(&opts.Columns, "columns", "", "Comma-separated columns to keep")
	cmd.Flags().StringVar(&opts.Bytes, "bytes", "", "Humanize this numeric column as byte sizes")

	return cmd
}

func runTable(args []string, opts *TableOptions) error {
	if (opts.Column == "") != (opts.Value == "") {
		return fmt.Errorf("--column and --value must be used together")
	}

	data, err := readInput(args[0])
	if err != nil {
		return err
	}

	tbl, err := table.Parse(string(data), table.Options{
		HeaderRow: opts.HeaderRow,
		Head:      opts.Head,
		Tail:      opts.Tail,
		Include:   opts.Include,
		Exclude:   opts.Exclude,
	})
	if err != nil {
		return err
	}

	if opts.Search != "" {
		tbl = tbl.Search(opts.Search)
	}

	if opts.Column != "" {
		tbl, err = tbl.SearchColumn(opts.Column, opts.Value)
		if err != nil {
			return err
		}
	}

	if opts.Columns != "" {
		names := strings.Split(opts.Columns, ",")
		tbl, err = tbl.SelectColumns(names...)
		if err != nil {
			return err
		}
	}

	if opts.Bytes != "" {
		if err := tbl.FormatBytes(opts.Bytes); err != nil {
			return err
		}
	}

	if opts.Output == "json" {
		return outputTableJSON(tbl)
	}

	return tbl.Render(os.Stdout)
}

// outputTableJSON emits rows as objects when a header exists, and as
// arrays otherwise.
func outputTableJSON(tbl *table.Table) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	header := tbl.Header()
	if header == nil {
		return encoder.Encode(tbl.Rows())
	}

	rows := make([]map[string]string, 0, tbl.Len())
	for _, row := range tbl.Rows() {
		obj := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				obj[name] = row[i]
			}
		}
		rows = append(rows, obj)
	}
	return encoder.Encode(rows)
}
