package version

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return non-empty consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.True(t, strings.HasPrefix(Full(), "timer-skill "))
}

// TestBuildInfo prefers ldflags values and falls back to the VCS stamp.
func TestBuildInfo(t *testing.T) {
	t.Parallel()

	stamped := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		}}, true
	}

	commit, built := buildInfo(stamped)
	if Commit == "none" {
		require.Equal(t, "0123456", commit)
	}

	if BuildTime == "unknown" {
		require.Equal(t, "2026-01-02T03:04:05Z", built)
	}

	commit, built = buildInfo(func() (*debug.BuildInfo, bool) { return nil, false })
	require.Equal(t, Commit, commit)
	require.Equal(t, BuildTime, built)
}

// TestVersionCommand runs the attached subcommand.
func TestVersionCommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "timer-skill"}
	AttachCobraVersionCommand(root)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetArgs([]string{"version", "--short"})

	require.NoError(t, root.Execute())
	require.Equal(t, Short()+"\n", out.String())
}
