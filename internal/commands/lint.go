// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dacolabs/avrodisiac/internal/prompts"
	"github.com/dacolabs/avrodisiac/internal/session"
	"github.com/spf13/cobra"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <path>",
		Short: "Check that schema files are well-formed",
		Long: `Check that every schema file under a path is well-formed.

All files are parsed as one document set, so a schema may refer to named
types declared in any other file. Directories named .git are skipped.`,
		Example: `  # Lint every .avsc file under ./schemas
  avrodisiac lint ./schemas

  # Lint a single file
  avrodisiac lint ./schemas/user.avsc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runLint(cmd.OutOrStdout(), sess, args[0])
		},
	}
	return cmd
}

func runLint(w io.Writer, sess *session.Context, path string) error {
	reg, count, err := loadSet(sess, path)
	if err != nil {
		if !isParseFailure(err) {
			return err
		}
		n := printDiagnostics(w, "", err)
		fmt.Fprintf(w, "Found %d errors.\n", n)
		return fmt.Errorf("found %d error(s) in %s", n, path)
	}

	prompts.PrintResult(w, []prompts.ResultField{
		{Label: "Documents", Value: strconv.Itoa(count)},
		{Label: "Named types", Value: strconv.Itoa(reg.Len())},
	}, "All schemas are valid")
	return nil
}
