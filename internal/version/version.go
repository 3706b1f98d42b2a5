// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package version reports the avrodisiac build and the Avro library it was
// built against.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// avroModule is the module that computes schema fingerprints.
const avroModule = "github.com/hamba/avro/v2"

// Set at build time with -ldflags "-X .../internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// AvroVersion is the hamba/avro module version linked into the binary, or
// "unknown" when build information doesn't list it.
var AvroVersion = "unknown"

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fillFromBuildInfo(info)
}

// fillFromBuildInfo completes the values ldflags left unset. It covers
// binaries installed with "go install module@version".
func fillFromBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "none" && len(setting.Value) >= 7 {
				Commit = setting.Value[:7]
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
	for _, dep := range info.Deps {
		if dep.Path != avroModule {
			continue
		}
		if dep.Replace != nil {
			dep = dep.Replace
		}
		AvroVersion = dep.Version
	}
}

// Info returns the full version line printed by "avrodisiac version".
func Info() string {
	return fmt.Sprintf("avrodisiac version %s (commit: %s, built: %s, go: %s, hamba/avro: %s)",
		Version, Commit, Date, runtime.Version(), AvroVersion)
}

// Short returns just the version string.
func Short() string {
	return Version
}
