// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/avrodisiac/internal/compat"
	"github.com/dacolabs/avrodisiac/internal/config"
	"github.com/dacolabs/avrodisiac/internal/prompts"
	"github.com/spf13/cobra"
)

type initOptions struct {
	extension      string
	mode           string
	failFast       bool
	nonInteractive bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an avrodisiac.yaml configuration file",
		Long: `Create an avrodisiac.yaml configuration file in the current directory
holding the defaults used by lint and compat.`,
		Example: `  # Interactive mode
  avrodisiac init

  # Non-interactive
  avrodisiac init --mode mutual --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVarP(&opts.extension, "extension", "e", defaults.Extension, "Schema file extension")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", defaults.Compat.Mode, "Default compatibility mode")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "Stop compat at the first incompatible schema")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cfgPath := filepath.Join(cwd, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return errors.New(config.FileName + " already exists; project already initialized")
	}

	if !opts.nonInteractive {
		if err := prompts.RunInitForm(&opts.extension, &opts.mode, &opts.failFast, compat.Modes()); err != nil {
			return err
		}
	}

	cfg := config.Default()
	cfg.Extension = opts.extension
	cfg.Compat.Mode = opts.mode
	cfg.Compat.FailFast = opts.failFast

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(cfgPath); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}

	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Extension", Value: cfg.Extension},
		{Label: "Mode", Value: cfg.Compat.Mode},
	}, "Initialization completed")
	return nil
}
