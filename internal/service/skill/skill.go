package skill

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/timer-skill/internal/config"
	"github.com/oshokin/timer-skill/internal/domain/timer"
	"github.com/oshokin/timer-skill/internal/logger"
	"github.com/oshokin/timer-skill/internal/repository/timers"
	"github.com/oshokin/timer-skill/internal/service/dialog"
	"github.com/oshokin/timer-skill/internal/service/match"
	"github.com/oshokin/timer-skill/internal/service/notify"
	"github.com/oshokin/timer-skill/internal/service/store"
)

// Conversation asks questions and receives replies.
type Conversation interface {
	match.Asker
	// Submit hands text to a pending question and reports whether one was waiting.
	Submit(text string) bool
}

// silentConversation is a Conversation that never gets an answer.
type silentConversation struct{}

func (silentConversation) Ask(context.Context, dialog.Response) (string, bool) { return "", false }

func (silentConversation) Submit(string) bool { return false }

// Deps are the collaborators of a Skill.
type Deps struct {
	// Store holds the timers.
	Store *store.Store
	// Repository persists the timers; nil disables persistence.
	Repository timers.Repository
	// Notifier delivers output.
	Notifier notify.Notifier
	// Conversation asks clarifying questions; nil never asks.
	Conversation Conversation
	// MaxRounds bounds clarification questions per request.
	MaxRounds int
	// AlarmThreshold is the duration from which an alarm is suggested.
	AlarmThreshold time.Duration
}

// Skill handles utterances.
type Skill struct {
	store        *store.Store
	repo         timers.Repository
	notifier     notify.Notifier
	conversation Conversation
	resolver     *match.Resolver
	threshold    time.Duration

	// requestMu serializes request handlers. Replies bypass it.
	requestMu sync.Mutex

	// followups tracks deferred confirmation exchanges.
	followups sync.WaitGroup
	// followupCtx is cancelled on Shutdown.
	followupCtx    context.Context //nolint:containedctx // Lifetime of deferred follow-ups.
	cancelFollowup context.CancelFunc
}

// New creates a Skill.
func New(deps *Deps) *Skill {
	threshold := deps.AlarmThreshold
	if threshold <= 0 {
		threshold = config.DefaultAlarmThreshold
	}

	conversation := deps.Conversation
	if conversation == nil {
		conversation = silentConversation{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Skill{
		store:          deps.Store,
		repo:           deps.Repository,
		notifier:       deps.Notifier,
		conversation:   conversation,
		resolver:       match.NewResolver(conversation, deps.MaxRounds),
		threshold:      threshold,
		followupCtx:    ctx,
		cancelFollowup: cancel,
	}
}

// Load restores persisted timers. Any failure leaves the store empty.
func (s *Skill) Load(ctx context.Context) {
	if s.repo == nil {
		return
	}

	records, err := s.repo.Load(ctx)

	switch {
	case err == nil:
		s.store.Restore(records)
		logger.InfoKV(ctx, "Timers restored", "count", s.store.Count(), "index", s.store.Index())
	case errors.Is(err, timers.ErrNotFound):
		s.store.Restore(nil)
	default:
		s.store.Restore(nil)
		logger.WarnKV(ctx, "Saved timers could not be loaded, starting empty", "error", err)
	}
}

// Timers returns a snapshot of the active timers.
func (s *Skill) Timers() []*timer.Record {
	return s.store.All()
}

// Now returns the store clock.
func (s *Skill) Now() time.Time {
	return s.store.Now()
}

// Utter dispatches text and returns the name of the intent it was routed to.
func (s *Skill) Utter(ctx context.Context, text string) string {
	return string(s.Dispatch(ctx, text))
}

// Dispatch routes text to the pending question or handles it as a request.
// It returns the intent the text was routed to.
func (s *Skill) Dispatch(ctx context.Context, text string) Intent {
	ctx = logger.WithName(ctx, "skill")

	if s.conversation.Submit(text) {
		logger.DebugKV(ctx, "Utterance answered a pending question", "text", text)

		return IntentReply
	}

	return s.Handle(ctx, text)
}

// Handle classifies text and runs the matching handler.
func (s *Skill) Handle(ctx context.Context, text string) Intent {
	intent := Classify(text)

	logger.InfoKV(ctx, "Handling utterance", "text", text, "intent", intent)

	s.requestMu.Lock()
	defer s.requestMu.Unlock()

	switch intent {
	case IntentStart:
		s.start(ctx, text)
	case IntentStatus:
		s.status(ctx, text)
	case IntentCount:
		s.count(ctx)
	case IntentCancel:
		s.cancel(ctx, text)
	case IntentStop:
		s.stop(ctx)
	case IntentMute:
		s.mute(ctx)
	case IntentUnknown, IntentReply:
		logger.DebugKV(ctx, "Utterance ignored", "text", text)
	}

	return intent
}

// Shutdown cancels pending follow-ups, persists the timers and clears the store.
func (s *Skill) Shutdown(ctx context.Context) error {
	s.cancelFollowup()
	s.followups.Wait()

	s.requestMu.Lock()
	defer s.requestMu.Unlock()

	err := s.save(ctx)

	cleared := s.store.Clear()
	logger.InfoKV(ctx, "Skill stopped", "timers", cleared)

	return err
}

// persist saves the timers and logs failures.
func (s *Skill) persist(ctx context.Context) {
	if err := s.save(ctx); err != nil {
		logger.ErrorKV(ctx, "Failed to persist timers", "error", err)
	}
}

func (s *Skill) save(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	if err := s.repo.Save(ctx, s.store.All()); err != nil {
		return fmt.Errorf("persist timers: %w", err)
	}

	return nil
}

// followUp runs fn after the current handler returned.
func (s *Skill) followUp(ctx context.Context, fn func(ctx context.Context)) {
	// Keep the request logger but follow the skill lifetime.
	followCtx := logger.ToContext(s.followupCtx, logger.FromContext(ctx))

	s.followups.Go(func() {
		fn(followCtx)
	})
}

// speak logs delivery failures.
func (s *Skill) speak(ctx context.Context, resp dialog.Response) {
	if err := s.notifier.Speak(ctx, resp, true); err != nil {
		logger.ErrorKV(ctx, "Failed to speak", "dialog", resp.ID, "error", err)
	}
}

// emit logs delivery failures.
func (s *Skill) emit(ctx context.Context, event string, data map[string]any) {
	if err := s.notifier.Emit(ctx, event, data); err != nil {
		logger.WarnKV(ctx, "Failed to emit event", "event", event, "error", err)
	}
}
