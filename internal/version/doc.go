// Package version exposes build metadata of the timer skill.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags.
// When they are not, Full falls back to the VCS information Go stamps into
// the binary.
package version
