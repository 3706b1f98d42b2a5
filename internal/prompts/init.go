// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import "github.com/charmbracelet/huh"

// RunInitForm runs the interactive form for the init command.
// It fills the provided pointers with user input.
func RunInitForm(extension, mode *string, failFast *bool, modes []string) error {
	options := make([]huh.Option[string], len(modes))
	for i, m := range modes {
		options[i] = huh.NewOption(m, m)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Schema file extension").
				Placeholder("avsc").
				Validate(requiredValidator("extension")).
				Value(extension),
			huh.NewSelect[string]().
				Title("Default compatibility mode").
				Options(options...).
				Value(mode),
			huh.NewConfirm().
				Title("Stop at the first incompatible schema?").
				Affirmative("Yes").
				Negative("No, report all").
				Value(failFast),
		),
	).WithTheme(Theme()).Run()
}
