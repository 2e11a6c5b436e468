// Command senml resolves, validates, and stores SenML (RFC 8428)
// sensor measurement packs.
package main

import (
	"fmt"
	"os"

	"github.com/SINTEF/sindit-senml/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
