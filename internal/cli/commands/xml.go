package commands

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/parsekit/parsekit/pkg/structured"
)

// XMLOptions holds command-line options shared by the xml subcommands.
type XMLOptions struct {
	InPlace bool
	Attr    string
	Text    bool
	All     bool
	Indent  int
}

// NewXMLCommand creates the xml command with its subcommands.
func NewXMLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xml",
		Short: "Parse, search, and edit XML documents",
		Long: `Parse, search, and edit XML documents.

Paths use etree path syntax: //server finds server elements at any depth,
config/server/port walks from the root. Use "-" as the file to read stdin.`,
	}

	cmd.AddCommand(newXMLGetCommand())
	cmd.AddCommand(newXMLSetCommand())
	cmd.AddCommand(newXMLDelCommand())

	return cmd
}

func newXMLGetCommand() *cobra.Command {
	opts := &XMLOptions{}

	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Read elements at a path",
		Long: `Print the first element matching the path, or every match with --all.
With --text only the element text is printed.

Example:
  parsekit xml get config.xml //server/port
  parsekit xml get --all config.xml //port
  parsekit xml get --text config.xml config/server/host`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXMLGet(args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Text, "text", false, "Print element text instead of XML")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Print every matching element")

	return cmd
}

func runXMLGet(args []string, opts *XMLOptions) error {
	doc, err := loadXML(args[0])
	if err != nil {
		return err
	}

	if opts.All {
		elements := doc.FindElements(args[1])
		if len(elements) == 0 {
			return fmt.Errorf("no element matches path %q", args[1])
		}
		for _, e := range elements {
			if err := printElement(e, opts); err != nil {
				return err
			}
		}
		return nil
	}

	e, err := doc.FindElement(args[1])
	if err != nil {
		return err
	}
	return printElement(e, opts)
}

func printElement(e *etree.Element, opts *XMLOptions) error {
	if opts.Text {
		fmt.Println(e.Text())
		return nil
	}

	// Serialize just this element.
	doc := etree.NewDocument()
	doc.SetRoot(e.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return fmt.Errorf("serializing XML: %w", err)
	}
	fmt.Println(strings.TrimRight(s, "\n"))
	return nil
}

func newXMLSetCommand() *cobra.Command {
	opts := &XMLOptions{}

	cmd := &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Set element text or an attribute at a path",
		Long: `Set the text of the first element matching the path, or an attribute
with --attr.

Example:
  parsekit xml set config.xml //server/port 9090
  parsekit xml set --attr enabled config.xml //feature true`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXMLSet(args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.InPlace, "in-place", "i", false, "Rewrite the input file instead of printing")
	cmd.Flags().StringVar(&opts.Attr, "attr", "", "Set this attribute instead of the element text")
	cmd.Flags().IntVar(&opts.Indent, "indent", 2, "Output indent width")

	return cmd
}

func runXMLSet(args []string, opts *XMLOptions) error {
	doc, err := loadXML(args[0])
	if err != nil {
		return err
	}

	if opts.Attr != "" {
		err = doc.SetAttr(args[1], opts.Attr, args[2])
	} else {
		err = doc.SetText(args[1], args[2])
	}
	if err != nil {
		return err
	}

	return writeXMLResult(doc, args[0], opts)
}

func newXMLDelCommand() *cobra.Command {
	opts := &XMLOptions{}

	cmd := &cobra.Command{
		Use:   "del <file> <path>",
		Short: "Remove the first element matching a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXMLDel(args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.InPlace, "in-place", "i", false, "Rewrite the input file instead of printing")
	cmd.Flags().IntVar(&opts.Indent, "indent", 2, "Output indent width")

	return cmd
}

func runXMLDel(args []string, opts *XMLOptions) error {
	doc, err := loadXML(args[0])
	if err != nil {
		return err
	}

	if err := doc.Remove(args[1]); err != nil {
		return err
	}

	return writeXMLResult(doc, args[0], opts)
}

func loadXML(path string) (*structured.XMLDocument, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return structured.ParseXML(data)
}

// writeXMLResult prints the document, or rewrites the input file with
// --in-place.
func writeXMLResult(doc *structured.XMLDocument, inputPath string, opts *XMLOptions) error {
	if opts.Indent > 0 {
		doc.Indent(opts.Indent)
	}

	out, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("serializing XML: %w", err)
	}

	if opts.InPlace {
		if inputPath == "-" {
			return fmt.Errorf("--in-place cannot be used with stdin")
		}
		return writeOutput(inputPath, out)
	}
	return writeOutput("", out)
}
