package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"

	"github.com/parsekit/parsekit/pkg/structured"
)

// JSONOptions holds command-line options shared by the json subcommands.
type JSONOptions struct {
	InPlace bool
	Raw     bool

	// find options
	Key   string
	In    string
	Value string

	// validate options
	Schema string
}

// NewJSONCommand creates the json command with its subcommands.
func NewJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Parse, search, and edit JSON documents",
		Long: `Parse, search, and edit JSON documents.

Paths are dot-separated key sequences; array elements are addressed by
index: server.ports.0. Use "-" as the file to read stdin.`,
	}

	cmd.AddCommand(newJSONGetCommand())
	cmd.AddCommand(newJSONSetCommand())
	cmd.AddCommand(newJSONDelCommand())
	cmd.AddCommand(newJSONFindCommand())
	cmd.AddCommand(newJSONValidateCommand())
	cmd.AddCommand(newJSONNormalizeCommand())

	return cmd
}

func newJSONGetCommand() *cobra.Command {
	opts := &JSONOptions{}

	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Read a value at a path",
		Long: `Read the value at a dot-separated path.

Example:
  parsekit json get config.json server.host
  parsekit json get config.json server.ports.0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSONGet(args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Raw, "raw", "r", false, "Print string values without quotes")

	return cmd
}

func runJSONGet(args []string, opts *JSONOptions) error {
	doc, err := loadJSON(args[0])
	if err != nil {
		return err
	}

	v, err := doc.Get(splitPath(args[1])...)
	if err != nil {
		return err
	}

	if opts.Raw && v.Type() == fastjson.TypeString {
		s, _ := v.StringBytes()
		fmt.Println(string(s))
		return nil
	}

	fmt.Println(v.String())
	return nil
}

func newJSONSetCommand() *cobra.Command {
	opts := &JSONOptions{}

	cmd := &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Set a value at a path",
		Long: `Set the value at a dot-separated path. The value is parsed as JSON
when possible and stored as a string otherwise.

Example:
  parsekit json set config.json server.port 9090
  parsekit json set --in-place config.json server.host '"db.internal"'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSONSet(args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.InPlace, "in-place", "i", false, "Rewrite the input file instead of printing")

	return cmd
}

func runJSONSet(args []string, opts *JSONOptions) error {
	doc, err := loadJSON(args[0])
	if err != nil {
		return err
	}

	if err := doc.SetJSON(args[2], splitPath(args[1])...); err != nil {
		return err
	}

	return writeJSONResult(doc, args[0], opts)
}

func newJSONDelCommand() *cobra.Command {
	opts := &JSONOptions{}

	cmd := &cobra.Command{
		Use:   "del <file> <path>",
		Short: "Delete the value at a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSONDel(args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.InPlace, "in-place", "i", false, "Rewrite the input file instead of printing")

	return cmd
}

func runJSONDel(args []string, opts *JSONOptions) error {
	doc, err := loadJSON(args[0])
	if err != nil {
		return err
	}

	if err := doc.Delete(splitPath(args[1])...); err != nil {
		return err
	}

	return writeJSONResult(doc, args[0], opts)
}

func newJSONFindCommand() *cobra.Command {
	opts := &JSONOptions{}

	cmd := &cobra.Command{
		Use:   "find <file>",
		Short: "Find values by key or content anywhere in a document",
		Long: `Find values anywhere in a document, regardless of nesting.

--key finds every value stored under the given key.
--in limits the search to values inside objects stored under the given key.
--value finds leaves whose text contains the given substring.

Example:
  parsekit json find config.json --key port
  parsekit json find config.json --in server --key host
  parsekit json find config.json --value 10.0.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSONFind(args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", "", "Key to search for")
	cmd.Flags().StringVar(&opts.In, "in", "", "Search only inside values under this key")
	cmd.Flags().StringVar(&opts.Value, "value", "", "Substring to search leaf values for")

	return cmd
}

func runJSONFind(args []string, opts *JSONOptions) error {
	if opts.Key == "" && opts.Value == "" {
		return fmt.Errorf("one of --key or --value is required")
	}
	if opts.Key != "" && opts.Value != "" {
		return fmt.Errorf("--key and --value are mutually exclusive")
	}
	if opts.In != "" && opts.Key == "" {
		return fmt.Errorf("--in requires --key")
	}

	doc, err := loadJSON(args[0])
	if err != nil {
		return err
	}

	if opts.Value != "" {
		found := doc.FindValue(opts.Value)
		if len(found) == 0 {
			ExitCode = 1
			return nil
		}
		keys := make([]string, 0, len(found))
		for k := range found {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s: %s\n", k, found[k].String())
		}
		return nil
	}

	var found []*fastjson.Value
	if opts.In != "" {
		found = doc.FindKeyIn(opts.In, opts.Key)
	} else {
		found = doc.FindKey(opts.Key)
	}

	if len(found) == 0 {
		ExitCode = 1
		return nil
	}
	for _, v := range found {
		fmt.Println(v.String())
	}
	return nil
}

func newJSONValidateCommand() *cobra.Command {
	opts := &JSONOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a document against a JSON Schema",
		Long: `Validate a document against a JSON Schema.

Exit codes:
  0 - Document is valid
  1 - Document violates the schema
  2 - Schema or document could not be read`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSONValidate(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "JSON Schema file (required)")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runJSONValidate(args []string, opts *JSONOptions) error {
	doc, err := loadJSON(args[0])
	if err != nil {
		return err
	}

	schema, err := readInput(opts.Schema)
	if err != nil {
		return err
	}

	violations, err := structured.ValidateSchema(doc, schema)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	if len(violations) == 0 {
		fmt.Println("valid")
		return nil
	}

	for _, v := range violations {
		fmt.Println(v)
	}
	ExitCode = 1
	return nil
}

func newJSONNormalizeCommand() *cobra.Command {
	opts := &JSONOptions{}

	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Coerce stringified booleans and nulls to typed values",
		Long: `Coerce string leaves that spell booleans or nulls ("true", "False",
"null", "None") into the corresponding JSON values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSONNormalize(args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.InPlace, "in-place", "i", false, "Rewrite the input file instead of printing")

	return cmd
}

func runJSONNormalize(args []string, opts *JSONOptions) error {
	doc, err := loadJSON(args[0])
	if err != nil {
		return err
	}

	doc.Normalize()

	return writeJSONResult(doc, args[0], opts)
}

func loadJSON(path string) (*structured.Document, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return structured.ParseJSON(data)
}

// writeJSONResult prints the document, or rewrites the input file with
// --in-place.
func writeJSONResult(doc *structured.Document, inputPath string, opts *JSONOptions) error {
	out := indentJSON(doc.Bytes())

	if opts.InPlace {
		if inputPath == "-" {
			return fmt.Errorf("--in-place cannot be used with stdin")
		}
		return writeOutput(inputPath, out)
	}
	return writeOutput("", out)
}

// indentJSON pretty-prints compact JSON. The document backend emits
// compact output; humans read the files this command rewrites.
func indentJSON(data []byte) []byte {
	var buf strings.Builder
	var raw json.RawMessage = data
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return data
	}
	return []byte(strings.TrimRight(buf.String(), "\n"))
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}
