//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another daemon process is found.
var ErrAlreadyRunning = errors.New("another instance is already running")

// ProcessLister enumerates running processes.
type ProcessLister func() ([]ps.Process, error)

// EnsureSingleInstance fails when another process runs the same executable.
func EnsureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	return ensureSingleInstance(ps.Processes, filepath.Base(executable), os.Getpid())
}

func ensureSingleInstance(list ProcessLister, executable string, self int) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == self || process.Executable() != executable {
			continue
		}

		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, process.Pid())
	}

	return nil
}
