package commands

import (
	"github.com/spf13/cobra"

	"github.com/parsekit/parsekit/pkg/structured"
)

// ConvertOptions holds command-line options for the convert command.
type ConvertOptions struct {
	Indent int
}

// NewConvertCommand creates the convert command with its subcommands.
func NewConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert between JSON and XML",
		Long: `Convert a document between JSON and XML.

json2xml maps objects to elements, arrays to repeated elements, and scalars
to element text. xml2json maps elements to objects, folds attributes in as
keys, and turns repeated siblings into arrays. Use "-" to read stdin.`,
	}

	cmd.AddCommand(newJSONToXMLCommand())
	cmd.AddCommand(newXMLToJSONCommand())

	return cmd
}

func newJSONToXMLCommand() *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "json2xml <file>",
		Short: "Convert a JSON document to XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSONToXML(args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Indent, "indent", 2, "Output indent width")

	return cmd
}

func runJSONToXML(args []string, opts *ConvertOptions) error {
	doc, err := loadJSON(args[0])
	if err != nil {
		return err
	}

	xml, err := structured.JSONToXML(doc, opts.Indent)
	if err != nil {
		return err
	}

	return writeOutput("", []byte(xml))
}

func newXMLToJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xml2json <file>",
		Short: "Convert an XML document to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXMLToJSON(args)
		},
	}

	return cmd
}

func runXMLToJSON(args []string) error {
	doc, err := loadXML(args[0])
	if err != nil {
		return err
	}

	converted, err := structured.XMLToJSON(doc)
	if err != nil {
		return err
	}

	return writeOutput("", indentJSON(converted.Bytes()))
}
