// Package main is the entry point for the farmkit CLI.
//
// farmkit handles the lifecycle of render-farm deployment resources
// that the orchestration layer cannot manage natively: importing TLS
// certificates, tracking them for idempotency, and cleaning them up
// once they are unreferenced.
//
// Commands: init, handle, track, version.
//
// For detailed usage information, run:
//
//	farmkit --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/farmkit/cmd/farmkit/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
