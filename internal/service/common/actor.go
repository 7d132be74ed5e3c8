//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"

	"github.com/oshokin/timer-skill/internal/domain/timer"
)

// DetectActor gathers host and user information attached to every request.
func DetectActor() (*timer.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &timer.Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
