// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package prompts provides interactive terminal prompts and styled output for
// CLI commands.
package prompts

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#27ca3f"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f56"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#bababa"))
)

// Theme returns the shared huh theme used across all CLI forms.
func Theme() *huh.Theme {
	theme := huh.ThemeBase16()
	theme.FieldSeparator = lipgloss.NewStyle().SetString("\n").MarginBottom(1)
	theme.Form.Base = theme.Form.Base.MarginTop(1)
	theme.Group.Base = theme.Group.Base.MarginTop(1)
	theme.Focused.Title = theme.Focused.Title.Foreground(lipgloss.Color("#f9ca24"))
	theme.Blurred.Title = theme.Blurred.Title.Foreground(lipgloss.Color("#bababa"))
	return theme
}

// ResultField is a label-value pair for PrintResult.
type ResultField struct {
	Label string
	Value string
}

// PrintResult prints a styled summary with green checkmarks and gray labels.
func PrintResult(w io.Writer, fields []ResultField, successMsg string) {
	check := successStyle.Render("✓")

	fmt.Fprintln(w)
	for _, f := range fields {
		fmt.Fprintf(w, "%s %s %s\n", check, labelStyle.Render(f.Label+":"), f.Value)
	}

	if successMsg != "" {
		fmt.Fprintln(w, successStyle.Render("\n"+successMsg))
	}
}

// PrintFailure prints one diagnostic line with a red cross. Multi-line
// messages are indented under the label.
func PrintFailure(w io.Writer, label, msg string) {
	cross := failureStyle.Render("✗")
	msg = strings.ReplaceAll(msg, "\n", "\n    ")
	if label == "" {
		fmt.Fprintf(w, "%s %s\n", cross, msg)
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", cross, labelStyle.Render(label+":"), msg)
}

func requiredValidator(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
