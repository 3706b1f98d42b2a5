// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package compat

import (
	"fmt"
	"sync"

	"github.com/dacolabs/avrodisiac/internal/schema"
)

// Mode selects which directions a comparison checks.
type Mode string

// Modes.
const (
	// ModeBackward checks that the new schema can read data written with the old one.
	ModeBackward Mode = "backward"
	// ModeForward checks that the old schema can read data written with the new one.
	ModeForward Mode = "forward"
	// ModeMutual checks both directions.
	ModeMutual Mode = "mutual"
)

// Modes returns the accepted mode names.
func Modes() []string {
	return []string{string(ModeBackward), string(ModeForward), string(ModeMutual)}
}

// ParseMode parses a mode name; the empty string selects ModeBackward.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeBackward, nil
	case ModeBackward, ModeForward, ModeMutual:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown compatibility mode %q", s)
	}
}

// Check compares an old and a new schema under mode. Mutual checking stops at
// the first direction that fails.
func Check(oldSchema, newSchema schema.Schema, mode Mode) *Incompatibility {
	if mode == ModeBackward || mode == ModeMutual {
		if inc := CanRead(newSchema, oldSchema); inc != nil {
			inc.Direction = Backward
			return inc
		}
	}
	if mode == ModeForward || mode == ModeMutual {
		if inc := CanRead(oldSchema, newSchema); inc != nil {
			inc.Direction = Forward
			return inc
		}
	}
	return nil
}

// MutualRead reports whether a and b can each read data written with the other.
func MutualRead(a, b schema.Schema) bool {
	return Check(a, b, ModeMutual) == nil
}

// Options configures Compare.
type Options struct {
	Mode Mode
	// FailFast stops at the first incompatible name instead of checking every pair.
	FailFast bool
}

// Report is the outcome of comparing two document sets.
type Report struct {
	Mode Mode
	// Checked lists the fullnames present in both sets that were compared.
	Checked []string
	// Incompatibilities holds one entry per failing or removed name, ordered by fullname.
	Incompatibilities []*Incompatibility
}

// Compatible reports whether no incompatibility was found.
func (r *Report) Compatible() bool { return len(r.Incompatibilities) == 0 }

// Compare matches the named types of oldSet and newSet by fullname and checks each
// pair under opts.Mode. A name declared in oldSet but missing from newSet is always
// an incompatibility; names only in newSet are ignored. Pairs are checked
// concurrently unless opts.FailFast is set.
func Compare(oldSet, newSet *schema.Registry, opts Options) *Report {
	mode := opts.Mode
	if mode == "" {
		mode = ModeBackward
	}
	report := &Report{Mode: mode}

	names := oldSet.Names()
	results := make([]*Incompatibility, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		oldSchema, _ := oldSet.Lookup(name)
		newSchema, ok := newSet.Lookup(name)
		if !ok {
			results[i] = &Incompatibility{
				Name:   name,
				Reason: SchemaRemoved,
				Detail: fmt.Sprintf("%s is declared in %s but missing from the new schemas", name, oldSet.Source(name)),
			}
			if opts.FailFast {
				break
			}
			continue
		}
		report.Checked = append(report.Checked, name)

		if opts.FailFast {
			results[i] = checkNamed(name, oldSchema, newSchema, mode)
			if results[i] != nil {
				break
			}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = checkNamed(name, oldSchema, newSchema, mode)
		}()
	}
	wg.Wait()

	for _, inc := range results {
		if inc != nil {
			report.Incompatibilities = append(report.Incompatibilities, inc)
		}
	}
	return report
}

func checkNamed(name string, oldSchema, newSchema schema.Schema, mode Mode) *Incompatibility {
	inc := Check(oldSchema, newSchema, mode)
	if inc != nil {
		inc.Name = name
	}
	return inc
}
