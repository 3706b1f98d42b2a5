// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"errors"
	"fmt"
	"strings"
)

// validateName checks name against [A-Za-z_][A-Za-z0-9_]*.
func validateName(name string) error {
	if name == "" {
		return errors.New("name is empty")
	}
	for i, r := range name {
		letter := r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		if i == 0 && !letter {
			return fmt.Errorf("invalid name %q: must start with a letter or underscore", name)
		}
		if !letter && !(r >= '0' && r <= '9') {
			return fmt.Errorf("invalid name %q: must contain only letters, digits and underscores", name)
		}
	}
	return nil
}

// validateFullName checks every dot-separated component of a fullname.
func validateFullName(name string) error {
	for _, part := range strings.Split(name, ".") {
		if err := validateName(part); err != nil {
			return err
		}
	}
	return nil
}
