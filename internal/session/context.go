// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides configuration loading for CLI commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dacolabs/avrodisiac/internal/config"
	"github.com/spf13/cobra"
)

var (
	// ErrConfigNotFound indicates an explicitly requested config file doesn't exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the resolved configuration of one command invocation.
type Context struct {
	// Config is the loaded configuration, or the defaults when no file exists.
	Config *config.Config

	// ConfigPath is the file Config was read from; empty when defaults are used.
	ConfigPath string

	// Logger writes debug traces when verbose output is enabled.
	Logger *slog.Logger
}

// Options controls Load.
type Options struct {
	// ConfigPath is an explicit config file. When empty, avrodisiac.yaml in
	// the working directory is used if present.
	ConfigPath string
	Verbose    bool
	// LogOutput receives log records; defaults to os.Stderr.
	LogOutput io.Writer
}

// Load loads the configuration and returns a new context.Context with the
// session Context stored in it.
func Load(ctx context.Context, opts Options) (context.Context, error) {
	cfgPath := opts.ConfigPath
	explicit := cfgPath != ""
	if !explicit {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		cfgPath = filepath.Join(cwd, config.FileName)
	}

	cfg := config.Default()
	if _, statErr := os.Stat(cfgPath); statErr != nil {
		if explicit {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, cfgPath)
		}
		cfgPath = ""
	} else {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		cfg = loaded
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := newLogger(out, opts.Verbose)
	if cfgPath != "" {
		logger.Debug("loaded configuration", "path", cfgPath)
	}

	sess := &Context{
		Config:     cfg,
		ConfigPath: cfgPath,
		Logger:     logger,
	}
	return context.WithValue(ctx, contextKey{}, sess), nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// From extracts the session Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	if sess, ok := ctx.Value(contextKey{}).(*Context); ok {
		return sess
	}
	return nil
}

// FromCommand extracts the session Context from a cobra.Command's context.
// Returns nil if no Context is stored.
func FromCommand(cmd *cobra.Command) *Context {
	return From(cmd.Context())
}

// RequireFromCommand extracts the session Context from a cobra.Command's
// context, returning an error if not found.
func RequireFromCommand(cmd *cobra.Command) (*Context, error) {
	sess := FromCommand(cmd)
	if sess == nil {
		return nil, errors.New("session not loaded")
	}
	return sess, nil
}

// PreRunLoad is a PersistentPreRunE function that loads the session from the
// --config and --verbose flags and stores it in the command's context.
func PreRunLoad(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, err := Load(parent, Options{
		ConfigPath: cfgPath,
		Verbose:    verbose,
		LogOutput:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	cmd.SetContext(ctx)
	return nil
}
