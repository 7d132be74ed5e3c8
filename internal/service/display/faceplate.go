package display

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// faceplateWidth is the number of characters the faceplate can show.
const faceplateWidth = 8

// Faceplate shows the soonest timer as a fixed-width text line, the way a
// small LED matrix would.
type Faceplate struct {
	mu sync.Mutex
	w  io.Writer
}

// NewFaceplate creates a faceplate writing to w.
func NewFaceplate(w io.Writer) *Faceplate {
	return &Faceplate{w: w}
}

// Name implements Strategy.
func (*Faceplate) Name() string { return CapabilityFaceplate }

// Capacity implements Strategy.
func (*Faceplate) Capacity() int { return 1 }

// Show implements Strategy.
func (f *Faceplate) Show(_ context.Context, frame Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	text := ""
	if !frame.Empty() {
		entry := frame.Entries[0]

		text = entry.Clock
		if entry.Expired {
			text = "-" + text
		}
	}

	if len(text) > faceplateWidth {
		text = text[len(text)-faceplateWidth:]
	}

	_, err := fmt.Fprintf(f.w, "[%*s]\n", faceplateWidth, text)

	return err
}
