// Command chemalyzer is the molecular analysis CLI. It runs the engine
// in-process by default and talks to a remote API server with --server.
package main

import (
	"os"

	"github.com/moleculab/chemalyzer/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
