// Command condkit formats, validates, compares and compiles filter documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/condkit/internal/cli"
	"github.com/roach88/condkit/internal/errors"
)

func main() {
	root := cli.NewRootCommand()
	root.SilenceErrors = true

	err := root.Execute()
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Commands print their own failures; this covers flag and argument errors.
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
