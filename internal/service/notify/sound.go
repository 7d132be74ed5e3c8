package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Beeper plays a WAV alert through the system speaker. The file is decoded
// into memory on first use.
type Beeper struct {
	path string

	once    sync.Once
	buffer  *beep.Buffer
	initErr error
}

// NewBeeper creates a Beeper for the WAV file at path.
func NewBeeper(path string) *Beeper {
	return &Beeper{path: path}
}

// Play queues the alert on the speaker and returns immediately.
func (b *Beeper) Play(_ context.Context) error {
	b.once.Do(func() {
		b.buffer, b.initErr = loadWAV(b.path)
	})

	if b.initErr != nil {
		return b.initErr
	}

	speaker.Play(b.buffer.Streamer(0, b.buffer.Len()))

	return nil
}

func loadWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound file: %w", err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("decode sound file: %w", err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	if err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	return buffer, nil
}

// Bell rings the terminal bell. It is used when no sound file is configured.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play implements Sound.
func (b *Bell) Play(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := io.WriteString(b.w, "\a")

	return err
}

// NewSound returns a Beeper for path, or a Bell on w when path is empty.
//
//nolint:ireturn // The concrete player depends on configuration.
func NewSound(path string, w io.Writer) Sound {
	if path == "" {
		return NewBell(w)
	}

	return NewBeeper(path)
}
