// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command ircluster is a demonstration CLI that drives an in-process IR
// cluster: sizing math, preset inspection, and a small simulated run.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ircluster",
	Short: "Tools for exploring Inconsistent Replication cluster behavior",
	Long: `ircluster drives a simulated, single-process Inconsistent Replication
cluster: quorum sizing math, configuration presets, and an end-to-end
run of the client against an in-memory set of replicas.`,
}

func main() {
	rootCmd.AddCommand(
		sizingCmd(),
		presetsCmd(),
		simulateCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
