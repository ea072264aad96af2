// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime/debug"
)

// Injected via -ldflags "-X github.com/olegiv/instcms/internal/version.Version=..."
var (
	Version   = ""
	GitCommit = ""
	BuildTime = ""
)

// Info contains build-time version information.
type Info struct {
	Version   string `json:"version"`    // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string `json:"git_commit"` // Short git commit hash (e.g., "abc1234")
	BuildTime string `json:"build_time"` // Build timestamp in RFC3339 format
}

// Get returns the injected build information. Without ldflags the module
// version and VCS revision recorded by the Go toolchain are used.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
	if info.Version != "" {
		return info
	}

	info.Version = "dev"
	if bi, ok := debug.ReadBuildInfo(); ok {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" && len(s.Value) >= 7 {
					info.GitCommit = s.Value[:7]
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			}
		}
	}
	return info
}

// Short returns just the version string.
func Short() string {
	return Get().Version
}

// String formats i for the version command.
func (i Info) String() string {
	s := "instcms " + i.Version
	if i.GitCommit != "" {
		s += fmt.Sprintf(" (%s)", i.GitCommit)
	}
	if i.BuildTime != "" {
		s += " built " + i.BuildTime
	}
	return s
}
