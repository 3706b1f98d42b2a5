// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/dacolabs/avrodisiac/internal/session"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command for the CLI. defaultConfig
// is the config file used when --config is not given; empty means
// avrodisiac.yaml in the working directory, if present.
func NewRootCmd(defaultConfig string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "avrodisiac",
		Short: "an Avro schema linter",
		Long: `avrodisiac checks that Avro schema files are well-formed and that a new
set of schemas stays compatible with the set it replaces.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: session.PreRunLoad,
	}

	rootCmd.PersistentFlags().String("config", defaultConfig, "Path to the avrodisiac.yaml configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information to stderr")

	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newCompatCmd())
	rootCmd.AddCommand(newFingerprintCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
