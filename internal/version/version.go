package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// shortCommitLength is how many characters of a VCS revision are kept.
const shortCommitLength = 7

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and
// the Go toolchain.
func Full() string {
	commit, built := buildInfo(debug.ReadBuildInfo)

	return fmt.Sprintf("timer-skill %s, commit: %s, built at: %s, %s",
		Version, commit, built, runtime.Version())
}

// buildInfo falls back to the VCS stamp of the binary when ldflags left the
// defaults in place.
func buildInfo(read func() (*debug.BuildInfo, bool)) (commit, built string) {
	commit, built = Commit, BuildTime

	info, ok := read()
	if !ok {
		return commit, built
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if commit == "none" && setting.Value != "" {
				commit = setting.Value[:min(len(setting.Value), shortCommitLength)]
			}
		case "vcs.time":
			if built == "unknown" && setting.Value != "" {
				built = setting.Value
			}
		}
	}

	return commit, built
}
