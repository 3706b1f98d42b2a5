// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/dacolabs/avrodisiac/internal/commands"
)

// ConfigEnv names the environment variable holding the default config path.
const ConfigEnv = "AVRODISIAC_CONFIG"

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, env lookup).
func Run(ctx context.Context, getenv func(string) string, args ...string) error {
	rootCmd := commands.NewRootCmd(getenv(ConfigEnv))
	if args != nil {
		rootCmd.SetArgs(args)
	}
	return rootCmd.ExecuteContext(ctx)
}
