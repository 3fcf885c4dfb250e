// Parsekit - text parsing toolkit
//
// Parsekit parses the text formats that turn up around systems work:
// structured data (JSON/XML), shell input, and timestamped lines.
package main

import (
	"os"

	"github.com/parsekit/parsekit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
