// Package main is the entry point for rl, the random program launcher.
package main

import (
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	a := newApp()
	root := buildRootCmd(a, fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := a.execute(root); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
