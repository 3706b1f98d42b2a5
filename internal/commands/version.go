// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"

	"github.com/dacolabs/avrodisiac/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the avrodisiac version",
		Example: `  # Show full version information
  avrodisiac version

  # Show only the version number
  avrodisiac version --short`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Short())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")
	return cmd
}
