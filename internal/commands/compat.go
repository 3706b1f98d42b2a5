// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dacolabs/avrodisiac/internal/compat"
	"github.com/dacolabs/avrodisiac/internal/prompts"
	"github.com/dacolabs/avrodisiac/internal/schema"
	"github.com/dacolabs/avrodisiac/internal/session"
	"github.com/spf13/cobra"
)

// errIncompatible is returned when the compared schema sets are not compatible.
var errIncompatible = errors.New("schemas aren't compatible")

type compatOptions struct {
	mode     string
	mutual   bool
	failFast bool
}

func newCompatCmd() *cobra.Command {
	opts := &compatOptions{}

	cmd := &cobra.Command{
		Use:   "compat [old] [new]",
		Short: "Check that new schemas stay compatible with old ones",
		Long: fmt.Sprintf(`Check that the schemas under new stay compatible with the schemas under old.

Named types are matched by fullname. A type declared in old but missing from
new is always reported; types only present in new are ignored.

Modes:
  backward  the new schemas can read data written with the old ones (default)
  forward   the old schemas can read data written with the new ones
  mutual    both directions hold

Available modes: %s`, strings.Join(compat.Modes(), ", ")),
		Example: `  # Check that consumers on the new schemas can read old data
  avrodisiac compat ./schemas-v1 ./schemas-v2

  # Require compatibility in both directions
  avrodisiac compat ./schemas-v1 ./schemas-v2 --mutual

  # Interactive mode
  avrodisiac compat`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runCompat(cmd, sess, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", fmt.Sprintf("Compatibility mode (%s)", strings.Join(compat.Modes(), ", ")))
	cmd.Flags().BoolVar(&opts.mutual, "mutual", false, "Require compatibility in both directions (same as --mode mutual)")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "Stop at the first incompatible schema")

	return cmd
}

func runCompat(cmd *cobra.Command, sess *session.Context, opts *compatOptions, args []string) error {
	var oldPath, newPath string
	if len(args) > 0 {
		oldPath = args[0]
	}
	if len(args) > 1 {
		newPath = args[1]
	}
	if err := prompts.RunCompatForm(&oldPath, &newPath); err != nil {
		return err
	}

	modeName := sess.Config.Compat.Mode
	if cmd.Flags().Changed("mode") {
		modeName = opts.mode
	}
	if opts.mutual {
		if cmd.Flags().Changed("mode") && opts.mode != string(compat.ModeMutual) {
			return fmt.Errorf("--mutual and --mode %s are mutually exclusive", opts.mode)
		}
		modeName = string(compat.ModeMutual)
	}
	mode, err := compat.ParseMode(modeName)
	if err != nil {
		return err
	}

	failFast := sess.Config.Compat.FailFast
	if cmd.Flags().Changed("fail-fast") {
		failFast = opts.failFast
	}

	w := cmd.OutOrStdout()
	oldSet, newSet, err := loadPair(w, sess, oldPath, newPath)
	if err != nil {
		return err
	}

	report := compat.Compare(oldSet, newSet, compat.Options{Mode: mode, FailFast: failFast})
	sess.Logger.Debug("compared schema sets", "mode", mode, "checked", len(report.Checked),
		"incompatible", len(report.Incompatibilities))

	if !report.Compatible() {
		for _, inc := range report.Incompatibilities {
			prompts.PrintFailure(w, "", inc.Error())
		}
		fmt.Fprintf(w, "\nFound %d incompatible schema(s).\n", len(report.Incompatibilities))
		return errIncompatible
	}

	prompts.PrintResult(w, []prompts.ResultField{
		{Label: "Mode", Value: string(mode)},
		{Label: "Compared", Value: strconv.Itoa(len(report.Checked))},
	}, "Schemas are compatible")
	return nil
}

// loadPair resolves the old and new document sets concurrently. Parse
// failures of either set are printed as diagnostics.
func loadPair(w io.Writer, sess *session.Context, oldPath, newPath string) (*schema.Registry, *schema.Registry, error) {
	var (
		wg             sync.WaitGroup
		oldSet, newSet *schema.Registry
		oldErr, newErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		oldSet, _, oldErr = loadSet(sess, oldPath)
	}()
	go func() {
		defer wg.Done()
		newSet, _, newErr = loadSet(sess, newPath)
	}()
	wg.Wait()

	failed := false
	for _, side := range []struct {
		name string
		err  error
	}{{"old", oldErr}, {"new", newErr}} {
		if side.err == nil {
			continue
		}
		if !isParseFailure(side.err) {
			return nil, nil, fmt.Errorf("%s schemas: %w", side.name, side.err)
		}
		printDiagnostics(w, side.name, side.err)
		failed = true
	}
	if failed {
		return nil, nil, errors.New("couldn't parse schemas")
	}
	return oldSet, newSet, nil
}
