// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dacolabs/avrodisiac/internal/fingerprint"
	"github.com/dacolabs/avrodisiac/internal/session"
	"github.com/spf13/cobra"
)

type fingerprintOptions struct {
	algorithm string
	canonical bool
}

func newFingerprintCmd() *cobra.Command {
	opts := &fingerprintOptions{}

	cmd := &cobra.Command{
		Use:   "fingerprint <path>",
		Short: "Print the fingerprint of every named type",
		Long: fmt.Sprintf(`Print the Parsing Canonical Form fingerprint of every named type declared
under a path. Each fingerprint covers the named types its schema depends on.

Available algorithms: %s`, strings.Join(fingerprint.Algorithms(), ", ")),
		Example: `  # CRC-64-AVRO fingerprints
  avrodisiac fingerprint ./schemas

  # SHA-256 fingerprints with the canonical form
  avrodisiac fingerprint ./schemas --algorithm sha256 --canonical`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runFingerprint(cmd.OutOrStdout(), sess, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", string(fingerprint.CRC64),
		fmt.Sprintf("Fingerprint algorithm (%s)", strings.Join(fingerprint.Algorithms(), ", ")))
	cmd.Flags().BoolVar(&opts.canonical, "canonical", false, "Also print the canonical form")

	return cmd
}

func runFingerprint(w io.Writer, sess *session.Context, opts *fingerprintOptions, path string) error {
	alg, err := fingerprint.ParseAlgorithm(opts.algorithm)
	if err != nil {
		return err
	}

	reg, _, err := loadSet(sess, path)
	if err != nil {
		if !isParseFailure(err) {
			return err
		}
		n := printDiagnostics(w, "", err)
		return fmt.Errorf("found %d error(s) in %s", n, path)
	}

	fps, err := fingerprint.Compute(reg, alg)
	if err != nil {
		return err
	}
	for _, fp := range fps {
		fmt.Fprintf(w, "%s  %s\n", fp.Hex(), fp.Name)
		if opts.canonical {
			fmt.Fprintf(w, "    %s\n", fp.Canonical)
		}
	}
	return nil
}
