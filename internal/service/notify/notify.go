package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/oshokin/timer-skill/internal/logger"
	"github.com/oshokin/timer-skill/internal/service/dialog"
	"github.com/oshokin/timer-skill/internal/service/display"
)

// Bus event types emitted by the skill.
const (
	EventSpeak          = "speak"
	EventStarted        = "timer.started"
	EventCancelled      = "timer.cancelled"
	EventExpired        = "timer.expired"
	EventStoppedExpired = "timer.stopped-expired"
	EventRerouteAlarm   = "timer.reroute-alarm"
)

// Notifier is the set of output channels the skill core depends on.
type Notifier interface {
	// PlaySound starts the alert sound for the timer with the given ID.
	PlaySound(ctx context.Context, id string) error
	// Speak renders and utters a response. wait blocks until it was delivered.
	Speak(ctx context.Context, resp dialog.Response, wait bool) error
	// Display shows a frame on the visual surface.
	Display(ctx context.Context, frame display.Frame) error
	// Emit publishes an event on the message bus.
	Emit(ctx context.Context, event string, data map[string]any) error
}

// Sound plays the alert sound.
type Sound interface {
	Play(ctx context.Context) error
}

// Renderer turns responses into text.
type Renderer interface {
	Render(ctx context.Context, resp dialog.Response) string
}

// HubOptions configures a Hub. Nil channels are replaced with silent ones.
type HubOptions struct {
	// Renderer renders spoken responses.
	Renderer Renderer
	// Output receives spoken text.
	Output io.Writer
	// Sound plays alerts.
	Sound Sound
	// Screen draws display frames.
	Screen display.Strategy
	// Bus publishes events.
	Bus Bus
}

// Hub implements Notifier over the configured channels.
type Hub struct {
	renderer Renderer
	sound    Sound
	screen   display.Strategy
	bus      Bus

	// mu serializes writes to out.
	mu  sync.Mutex
	out io.Writer
}

var _ Notifier = (*Hub)(nil)

// NewHub creates a Hub.
func NewHub(opts HubOptions) *Hub {
	h := &Hub{
		renderer: opts.Renderer,
		sound:    opts.Sound,
		screen:   opts.Screen,
		bus:      opts.Bus,
		out:      opts.Output,
	}

	if h.out == nil {
		h.out = os.Stdout
	}

	if h.sound == nil {
		h.sound = NewBell(io.Discard)
	}

	if h.screen == nil {
		h.screen = display.None{}
	}

	if h.bus == nil {
		h.bus = LogBus{}
	}

	return h
}

// Screen returns the display strategy in use.
func (h *Hub) Screen() display.Strategy {
	return h.screen
}

// PlaySound implements Notifier.
func (h *Hub) PlaySound(ctx context.Context, id string) error {
	logger.DebugKV(ctx, "Playing alert", "timer_id", id)

	if err := h.sound.Play(ctx); err != nil {
		return fmt.Errorf("play alert: %w", err)
	}

	return nil
}

// Speak implements Notifier.
func (h *Hub) Speak(ctx context.Context, resp dialog.Response, wait bool) error {
	text := resp.ID
	if h.renderer != nil {
		text = h.renderer.Render(ctx, resp)
	}

	logger.InfoKV(ctx, "Speaking",
		"dialog", resp.ID,
		"utterance", text,
		"wait", wait,
	)

	h.mu.Lock()
	_, err := fmt.Fprintf(h.out, "» %s\n", text)
	h.mu.Unlock()

	if err != nil {
		return fmt.Errorf("write utterance: %w", err)
	}

	return h.Emit(ctx, EventSpeak, map[string]any{
		"utterance":       text,
		"meta":            map[string]any{"dialog": resp.ID, "skill": SkillID},
		"expect_response": false,
	})
}

// Display implements Notifier.
func (h *Hub) Display(ctx context.Context, frame display.Frame) error {
	if err := h.screen.Show(ctx, frame); err != nil {
		return fmt.Errorf("show frame on %s: %w", h.screen.Name(), err)
	}

	return nil
}

// Emit implements Notifier.
func (h *Hub) Emit(ctx context.Context, event string, data map[string]any) error {
	if err := h.bus.Publish(ctx, NewMessage(event, data)); err != nil {
		return fmt.Errorf("emit %s: %w", event, err)
	}

	return nil
}

// Close releases the bus connection.
func (h *Hub) Close() error {
	return h.bus.Close()
}
