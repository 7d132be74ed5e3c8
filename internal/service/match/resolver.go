package match

import (
	"context"

	"github.com/oshokin/timer-skill/internal/domain/timer"
	"github.com/oshokin/timer-skill/internal/logger"
	"github.com/oshokin/timer-skill/internal/service/dialog"
)

// DefaultMaxRounds bounds the number of clarifying questions per request.
const DefaultMaxRounds = 3

// State is a step of the clarification state machine.
type State int

const (
	// Unresolved means the candidates still need narrowing.
	Unresolved State = iota
	// AwaitingReply means a clarifying question is pending.
	AwaitingReply
	// Resolved means the candidate set is final.
	Resolved
	// Cancelled means the user declined, timed out or never narrowed the set.
	Cancelled
	// NotFound means the request or a reply matched no timer.
	NotFound
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case AwaitingReply:
		return "awaiting-reply"
	case Resolved:
		return "resolved"
	case Cancelled:
		return "cancelled"
	case NotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Asker poses a question and waits for the reply. ok is false when the user
// declined or did not answer in time.
type Asker interface {
	Ask(ctx context.Context, prompt dialog.Response) (reply string, ok bool)
}

// Result is the outcome of a resolution.
type Result struct {
	// State is Resolved, Cancelled or NotFound.
	State State
	// Timers holds the selected timers when State is Resolved.
	Timers []*timer.Record
	// Rounds counts the clarifying questions asked.
	Rounds int
}

// Err maps unsuccessful outcomes to domain errors.
func (r Result) Err() error {
	switch r.State {
	case Resolved:
		return nil
	case Cancelled:
		return timer.ErrCancelled
	default:
		return timer.ErrNotFound
	}
}

// Resolver narrows a request down to the timers it refers to.
type Resolver struct {
	// asker poses clarifying questions.
	asker Asker
	// maxRounds bounds the clarification loop.
	maxRounds int
}

// NewResolver creates a Resolver. A non-positive maxRounds uses DefaultMaxRounds.
func NewResolver(asker Asker, maxRounds int) *Resolver {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	return &Resolver{
		asker:     asker,
		maxRounds: maxRounds,
	}
}

// Resolve matches text against timers. When single is set and more than one
// timer matches, the user is asked to choose; an "all" answer keeps every
// remaining candidate.
func (r *Resolver) Resolve(ctx context.Context, text string, timers []*timer.Record, single bool) Result {
	ctx = logger.WithName(ctx, "resolver")

	if len(timers) == 0 {
		return Result{State: NotFound}
	}

	query := Parse(text, timers, false)
	candidates := Match(query, timers)

	logger.DebugKV(ctx, "Request matched",
		"text", text,
		"candidates", len(candidates),
	)

	switch {
	case len(candidates) == 0:
		return Result{State: NotFound}
	case len(candidates) == 1, !single, query.All:
		return Result{State: Resolved, Timers: candidates}
	}

	state := Unresolved

	for round := 1; round <= r.maxRounds; round++ {
		state = AwaitingReply

		reply, ok := r.asker.Ask(ctx, dialog.AskWhich(candidates, timers))
		if !ok {
			logger.InfoKV(ctx, "Clarification abandoned", "round", round)

			return Result{State: Cancelled, Rounds: round}
		}

		replyQuery := Parse(reply, candidates, true)
		if replyQuery.All {
			return Result{State: Resolved, Timers: candidates, Rounds: round}
		}

		next := Match(replyQuery, candidates)

		logger.DebugKV(ctx, "Reply matched",
			"reply", reply,
			"round", round,
			"candidates", len(next),
		)

		switch {
		case len(next) == 0:
			return Result{State: NotFound, Rounds: round}
		case len(next) == 1:
			return Result{State: Resolved, Timers: next, Rounds: round}
		}

		candidates = next
		state = Unresolved
	}

	logger.InfoKV(ctx, "Clarification gave up",
		"rounds", r.maxRounds,
		"state", state,
	)

	return Result{State: Cancelled, Rounds: r.maxRounds}
}
