// Package version reports the build identity of the cssom binaries.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time via -ldflags "-X bennypowers.dev/cssom/internal/version.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = "unknown"
	BuildTime = "unknown"
	GitDirty  = "" // "dirty" for builds from a modified tree
)

func shortCommit() string {
	if len(GitCommit) > 7 {
		return GitCommit[:7]
	}
	return GitCommit
}

// GetVersion prefers the ldflags version, then the module version from
// the build info, then one assembled from the git tag and commit.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	if GitTag == "unknown" || GitCommit == "unknown" {
		return "dev"
	}
	v := GitTag
	if c := shortCommit(); c != "" && !strings.HasSuffix(v, c) {
		v += "-" + c
	}
	if GitDirty == "dirty" {
		v += "-dirty"
	}
	return v
}

// GetFullVersion appends the commit to GetVersion when it is known.
func GetFullVersion() string {
	if GitCommit == "unknown" {
		return GetVersion()
	}
	return fmt.Sprintf("%s (commit: %s)", GetVersion(), GitCommit)
}

// String formats the version line printed by the --version flags.
func String(program string) string {
	s := program + " " + GetFullVersion()
	if BuildTime != "unknown" {
		s += ", built " + BuildTime
	}
	return s
}
