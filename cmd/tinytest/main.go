// Command tinytest runs the example suite and reports results to the
// console. See the root command help for flags and exit codes.
package main

import (
	"fmt"
	"os"

	"github.com/tinytest-go/tinytest/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
