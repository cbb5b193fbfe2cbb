// Package main provides the tsqlscript command.
package main

import (
	"os"

	"github.com/leapstack-labs/tsqlscript/internal/cli"
	"github.com/leapstack-labs/tsqlscript/internal/cli/commands"
)

func main() {
	os.Exit(commands.ExitCode(cli.Execute()))
}
