// Command namesort sorts a file of person names by last name, then given
// names, writes them to an output file and echoes them to stdout.
//
//	namesort [flags] [input] [output]
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/amp-labs/name-sorter/shutdown"
	"github.com/amp-labs/name-sorter/startup"
)

func main() {
	ctx := shutdown.SetupHandler()

	if err := startup.ConfigureEnvironment(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := newApp(os.Stdout, nil).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
