// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fetcharr",
		Short: "Meta-search across torrent index sites",
		Long: `fetcharr fans a search query out across configured torrent index
sites in parallel, filters the results against the requested title, and
returns one globally ranked candidate list.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Directory containing config.toml (created on first run)")

	rootCmd.AddCommand(RunServeCommand())
	rootCmd.AddCommand(RunSearchCommand())
	rootCmd.AddCommand(RunVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
