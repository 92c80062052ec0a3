// Package main is the entry point for the nodeops CLI.
//
// nodeops is a command-line tool for provisioning and operating Modnet
// blockchain nodes. It resolves launch configuration, provisions key
// material, drives the node process through its bootstrap sequence to a
// hardened steady state, and provides operator utilities for keys and
// chain specifications.
//
// Commands: up, stop, status, doctor, keys, chainspec, version, completion.
//
// For detailed usage information, run:
//
//	nodeops --help
package main

import (
	"fmt"
	"os"

	"github.com/modnet-labs/nodeops/cmd/nodeops/commands"
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
