//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

// fakeProcess implements ps.Process.
type fakeProcess struct {
	pid        int
	executable string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.executable }

func listOf(processes ...ps.Process) ProcessLister {
	return func() ([]ps.Process, error) { return processes, nil }
}

// TestEnsureSingleInstance covers the self, foreign and duplicate process cases.
func TestEnsureSingleInstance(t *testing.T) {
	t.Parallel()

	self := fakeProcess{pid: 10, executable: "timer-skill"}
	other := fakeProcess{pid: 11, executable: "bash"}
	twin := fakeProcess{pid: 12, executable: "timer-skill"}

	require.NoError(t, ensureSingleInstance(listOf(self, other), "timer-skill", 10))

	err := ensureSingleInstance(listOf(self, other, twin), "timer-skill", 10)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	require.Contains(t, err.Error(), "pid 12")

	failing := func() ([]ps.Process, error) { return nil, errors.New("boom") }
	require.Error(t, ensureSingleInstance(failing, "timer-skill", 10))
}
