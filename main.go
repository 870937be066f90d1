// Package main is the entry point for the paratext command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/zjrosen/paratext/cmd"
)

// Build information injected via ldflags at build time.
var (
	version = "2.0.0"
	commit  = "none"
	date    = "unknown"
)

func main() {
	versionString := fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	cmd.SetVersion(versionString)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
