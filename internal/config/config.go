// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles avrodisiac project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/dacolabs/avrodisiac/internal/compat"
	"github.com/dacolabs/avrodisiac/internal/loader"
	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// FileName is the name of the configuration file looked up in the working directory.
const FileName = "avrodisiac.yaml"

// Config represents the avrodisiac.yaml configuration file.
type Config struct {
	Version int `yaml:"version"`
	// Extension selects schema files, without the leading dot.
	Extension string `yaml:"extension,omitempty"`
	// Skip lists directory names that are never descended into.
	Skip   []string     `yaml:"skip,omitempty"`
	Compat CompatConfig `yaml:"compat,omitempty"`
}

// CompatConfig holds the defaults of the compat command.
type CompatConfig struct {
	// Mode is backward, forward or mutual.
	Mode     string `yaml:"mode,omitempty"`
	FailFast bool   `yaml:"fail_fast,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:   CurrentConfigVersion,
		Extension: loader.DefaultExtension,
		Skip:      slices.Clone(loader.DefaultSkip),
		Compat: CompatConfig{
			Mode: string(compat.ModeBackward),
		},
	}
}

// Load reads a Config from a file path. Settings absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	if _, err := compat.ParseMode(c.Compat.Mode); err != nil {
		return fmt.Errorf("compat.mode: %w", err)
	}
	return nil
}

// LoaderOptions returns the file selection settings for a loader.Loader.
func (c *Config) LoaderOptions() loader.Options {
	return loader.Options{Extension: c.Extension, Skip: c.Skip}
}
