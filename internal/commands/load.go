// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/dacolabs/avrodisiac/internal/loader"
	"github.com/dacolabs/avrodisiac/internal/prompts"
	"github.com/dacolabs/avrodisiac/internal/schema"
	"github.com/dacolabs/avrodisiac/internal/session"
)

// loadSet collects the schema files under path and resolves them as one
// document set. It returns the number of documents read alongside the
// registry.
func loadSet(sess *session.Context, path string) (*schema.Registry, int, error) {
	l, root, err := loader.Open(path, sess.Config.LoaderOptions())
	if err != nil {
		return nil, 0, err
	}
	docs, err := l.Collect(root)
	if err != nil {
		return nil, 0, err
	}
	sess.Logger.Debug("collected schema documents", "path", path, "count", len(docs))

	reg, err := schema.Resolve(docs)
	if err != nil {
		return nil, len(docs), err
	}
	sess.Logger.Debug("resolved document set", "path", path, "named_types", reg.Len())
	return reg, len(docs), nil
}

// isParseFailure reports whether err comes from parsing or resolving a
// document set rather than from reading files.
func isParseFailure(err error) bool {
	var perr *schema.ParseError
	return errors.As(err, &perr)
}

// printDiagnostics writes one line per failure in err and returns how many
// were written. prefix, when set, is prepended to every label.
func printDiagnostics(w io.Writer, prefix string, err error) int {
	errs := schema.Errors(err)
	for _, e := range errs {
		label, msg := "", e.Error()
		var perr *schema.ParseError
		if errors.As(e, &perr) && perr.Source != "" {
			located := *perr
			located.Source = ""
			label, msg = perr.Source, located.Error()
		}
		if prefix != "" {
			label = fmt.Sprintf("%s %s", prefix, label)
		}
		prompts.PrintFailure(w, label, msg)
	}
	return len(errs)
}
