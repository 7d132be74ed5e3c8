package timer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveTimers is returned when a request needs timers and none exist.
	ErrNoActiveTimers = errors.New("no active timers")
	// ErrDuplicateName is returned when a new timer reuses an active name.
	ErrDuplicateName = errors.New("duplicate timer name")
	// ErrNoDuration is returned when no duration could be extracted.
	ErrNoDuration = errors.New("no duration found")
	// ErrNotFound is returned when a request matches no active timer.
	ErrNotFound = errors.New("no matching timer")
	// ErrCancelled is returned when the user declined or did not answer.
	ErrCancelled = errors.New("request cancelled by user")
	// ErrTimerNotFound is returned when an ID is not in the store.
	ErrTimerNotFound = errors.New("timer not found")
	// ErrInvalidDuration is returned for non-positive durations.
	ErrInvalidDuration = errors.New("invalid timer duration")
)

// DuplicateNameError carries the active timer whose name collided.
type DuplicateNameError struct {
	// Existing is a copy of the conflicting timer.
	Existing *Record
}

// Error implements error.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateName, e.Existing.Name)
}

// Unwrap lets errors.Is match ErrDuplicateName.
func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}
