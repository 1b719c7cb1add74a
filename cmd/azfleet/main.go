// Package main is the entry point for the azfleet CLI.
//
// azfleet provisions, validates, and decommissions Azure VM workers from
// declarative worker templates, and reports their lifecycle status.
//
// Commands: deploy, status, terminate, validate, version.
//
// For detailed usage information, run:
//
//	azfleet --help
package main

import (
	"fmt"
	"os"

	"github.com/azfleet/azfleet/cmd/azfleet/commands"
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
