package display

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Capability names accepted by Select.
const (
	CapabilityAuto      = "auto"
	CapabilityFaceplate = "faceplate"
	CapabilityTerminal  = "terminal"
	CapabilityNone      = "none"
)

// Entry is one timer as shown on a display.
type Entry struct {
	// ID identifies the timer.
	ID string
	// Name is the timer name.
	Name string
	// Clock is the formatted remaining or elapsed time.
	Clock string
	// Expired marks a ringing timer.
	Expired bool
	// Progress is the elapsed share of the duration in [0, 1].
	Progress float64
}

// Frame is the set of timers visible at one refresh.
type Frame struct {
	// Entries are the visible timers; empty clears the display.
	Entries []Entry
	// Total is the number of active timers, visible or not.
	Total int
}

// Empty reports whether the frame clears the display.
func (f Frame) Empty() bool {
	return len(f.Entries) == 0
}

// Strategy draws frames on one kind of surface.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string
	// Capacity is the number of timers shown at once; zero disables refreshes.
	Capacity() int
	// Show draws the frame.
	Show(ctx context.Context, frame Frame) error
}

// Select picks the strategy for capability, writing to w. The auto capability
// uses the terminal panel when stdout is a terminal and nothing otherwise.
func Select(capability string, w io.Writer) (Strategy, error) {
	if w == nil {
		w = os.Stdout
	}

	switch strings.ToLower(strings.TrimSpace(capability)) {
	case CapabilityAuto, "":
		if isTerminal(os.Stdout) {
			return NewTerminal(w), nil
		}

		return None{}, nil
	case CapabilityFaceplate:
		return NewFaceplate(w), nil
	case CapabilityTerminal:
		return NewTerminal(w), nil
	case CapabilityNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown display capability %q", capability)
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// None discards every frame.
type None struct{}

// Name implements Strategy.
func (None) Name() string { return CapabilityNone }

// Capacity implements Strategy.
func (None) Capacity() int { return 0 }

// Show implements Strategy.
func (None) Show(context.Context, Frame) error { return nil }
