// Command netatmo-cli is the entry point for the Netatmo thermostat CLI.
// Thermostat control is provided by an external library; this binary carries
// the command tree, configuration, logging and build metadata around it.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/54b3r/netatmo-cli/cmd/netatmo-cli/commands"
)

func main() {
	if err := commands.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
