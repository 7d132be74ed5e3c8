package converse

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/timer-skill/internal/logger"
	"github.com/oshokin/timer-skill/internal/service/dialog"
)

// DefaultTimeout is how long Ask waits for a reply.
const DefaultTimeout = 15 * time.Second

// Speaker utters prompts.
type Speaker interface {
	Speak(ctx context.Context, resp dialog.Response, wait bool) error
}

// Pauser silences alerts while a question is pending.
type Pauser interface {
	Pause()
	Resume()
}

// Option customizes a Broker.
type Option func(*Broker)

// WithPauser pauses p around every question.
func WithPauser(p Pauser) Option {
	return func(b *Broker) {
		b.pauser = p
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithAskSignal notifies ch, without blocking, whenever a question starts
// waiting for its reply.
func WithAskSignal(ch chan<- struct{}) Option {
	return func(b *Broker) {
		b.asked = ch
	}
}

// Broker routes user replies to the pending question.
type Broker struct {
	speaker Speaker
	pauser  Pauser
	timeout time.Duration
	asked   chan<- struct{}

	// mu guards pending.
	mu sync.Mutex
	// pending receives the reply while a question is outstanding.
	pending chan string
}

// NewBroker creates a Broker.
func NewBroker(speaker Speaker, opts ...Option) *Broker {
	b := &Broker{
		speaker: speaker,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Ask speaks the prompt and waits for a reply. ok is false when the user did
// not answer in time, answered with nothing, the context ended or another
// question is already pending.
func (b *Broker) Ask(ctx context.Context, prompt dialog.Response) (string, bool) {
	ctx = logger.WithName(ctx, "converse")

	replies := make(chan string, 1)

	b.mu.Lock()
	if b.pending != nil {
		b.mu.Unlock()
		logger.WarnKV(ctx, "Question dropped, another one is pending", "dialog", prompt.ID)

		return "", false
	}

	b.pending = replies
	b.mu.Unlock()

	if b.asked != nil {
		select {
		case b.asked <- struct{}{}:
		default:
		}
	}

	defer func() {
		b.mu.Lock()
		if b.pending == replies {
			b.pending = nil
		}
		b.mu.Unlock()
	}()

	if b.pauser != nil {
		b.pauser.Pause()
		defer b.pauser.Resume()
	}

	if err := b.speaker.Speak(ctx, prompt, true); err != nil {
		logger.ErrorKV(ctx, "Failed to speak question", "dialog", prompt.ID, "error", err)
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case reply := <-replies:
		reply = strings.TrimSpace(reply)
		logger.DebugKV(ctx, "Reply received", "dialog", prompt.ID, "reply", reply)

		return reply, reply != ""
	case <-timer.C:
		logger.InfoKV(ctx, "Question timed out", "dialog", prompt.ID, "timeout", b.timeout)

		return "", false
	case <-ctx.Done():
		return "", false
	}
}

// Submit hands text to the pending question. It reports false when no
// question was waiting, in which case text is a new request.
func (b *Broker) Submit(text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		return false
	}

	b.pending <- text
	b.pending = nil

	return true
}

// Pending reports whether a question awaits its reply.
func (b *Broker) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.pending != nil
}
