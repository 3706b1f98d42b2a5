// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import "github.com/charmbracelet/huh"

// RunCompatForm prompts for the old and new schema paths that were not
// given on the command line. Filled values are left untouched.
func RunCompatForm(oldPath, newPath *string) error {
	var groups []*huh.Group
	if *oldPath == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Old schemas").
				Description("File or directory with the schemas currently in use").
				Placeholder("./schemas").
				Validate(requiredValidator("old schemas path")).
				Value(oldPath),
		))
	}
	if *newPath == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("New schemas").
				Description("File or directory with the proposed schemas").
				Placeholder("./next").
				Validate(requiredValidator("new schemas path")).
				Value(newPath),
		))
	}
	if len(groups) == 0 {
		return nil
	}
	return huh.NewForm(groups...).WithTheme(Theme()).Run()
}
