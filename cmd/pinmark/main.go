// Command pinmark replays marker reconciliation scenarios.
package main

import (
	"os"

	"github.com/arloliu/pinmark/internal/cli"
)

// Build information, set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := cli.NewRootCmd(version, commit, date).Execute(); err != nil {
		os.Exit(1)
	}
}
