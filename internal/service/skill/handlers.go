package skill

import (
	"context"
	"errors"

	"github.com/oshokin/timer-skill/internal/domain/timer"
	"github.com/oshokin/timer-skill/internal/logger"
	"github.com/oshokin/timer-skill/internal/service/dialog"
	"github.com/oshokin/timer-skill/internal/service/extract"
	"github.com/oshokin/timer-skill/internal/service/match"
	"github.com/oshokin/timer-skill/internal/service/notify"
)

// start creates a timer. A missing duration is asked for once; a duration at
// or above the alarm threshold is offered as an alarm first.
func (s *Skill) start(ctx context.Context, text string) {
	duration, _, ok := extract.Duration(text)
	if !ok {
		if reply, answered := s.ask(ctx, dialog.AskDuration()); answered {
			duration, _, ok = extract.Duration(reply)
		}

		if !ok {
			s.speak(ctx, dialog.NoDuration())

			return
		}
	}

	if duration >= s.threshold {
		reply, answered := s.ask(ctx, dialog.AlarmInstead(duration))
		if !answered {
			logger.InfoKV(ctx, "Long timer abandoned", "duration", duration)

			return
		}

		yes, understood := extract.YesNo(reply)
		if !understood {
			logger.InfoKV(ctx, "Long timer abandoned, unclear reply", "reply", reply)

			return
		}

		if yes {
			s.emit(ctx, notify.EventRerouteAlarm, map[string]any{
				"utterance": text,
				"duration":  duration.Seconds(),
			})

			logger.InfoKV(ctx, "Request handed over to the alarm skill", "duration", duration)

			return
		}
	}

	name, _ := extract.Name(text)
	if _, numbered := timer.DefaultNameNumber(name); numbered {
		// Auto names are assigned by the store.
		name = ""
	}

	created, err := s.store.Add(duration, name)

	var duplicate *timer.DuplicateNameError

	switch {
	case errors.As(err, &duplicate):
		s.speak(ctx, dialog.DuplicateName(duplicate.Existing, s.store.Now()))

		return
	case err != nil:
		logger.ErrorKV(ctx, "Failed to create timer", "duration", duration, "name", name, "error", err)

		return
	}

	logger.InfoKV(ctx, "Timer started",
		"timer_id", created.ID,
		"name", created.Name,
		"duration", created.Duration,
		"expiration", created.Expiration,
	)

	s.speak(ctx, dialog.Started(created, s.store.All()))
	s.emit(ctx, notify.EventStarted, eventData(created))
	s.persist(ctx)
}

// status reports the time left on the requested timers.
func (s *Skill) status(ctx context.Context, text string) {
	active := s.store.All()
	if len(active) == 0 {
		s.speak(ctx, dialog.NoActiveTimers())

		return
	}

	result := s.resolver.Resolve(ctx, text, active, true)

	switch result.State {
	case match.Resolved:
		now := s.store.Now()

		for _, t := range result.Timers {
			s.speak(ctx, dialog.Status(t, active, now))
		}
	case match.NotFound:
		s.speak(ctx, dialog.NotFound())
	default:
		logger.DebugKV(ctx, "Status request dropped", "state", result.State)
	}
}

// count reports how many timers are active.
func (s *Skill) count(ctx context.Context) {
	total := s.store.Count()
	if total == 0 {
		s.speak(ctx, dialog.NoActiveTimers())

		return
	}

	s.speak(ctx, dialog.StatusCount(total))
}

// cancel removes the requested timers.
func (s *Skill) cancel(ctx context.Context, text string) {
	active := s.store.All()
	if len(active) == 0 {
		s.speak(ctx, dialog.NoActiveTimers())

		return
	}

	result := s.resolver.Resolve(ctx, text, active, true)

	switch result.State {
	case match.Resolved:
	case match.NotFound:
		s.speak(ctx, dialog.NotFound())

		return
	default:
		logger.DebugKV(ctx, "Cancel request dropped", "state", result.State)

		return
	}

	if len(result.Timers) == 1 && !extract.HasAll(text) {
		t := result.Timers[0]

		if err := s.store.Remove(t.ID); err != nil {
			// Stopped from another request while the question was pending.
			logger.WarnKV(ctx, "Timer vanished before cancellation", "timer_id", t.ID, "error", err)
			s.speak(ctx, dialog.NotFound())

			return
		}

		s.speak(ctx, dialog.Cancelled(t, active))
		s.emit(ctx, notify.EventCancelled, eventData(t))
		s.persist(ctx)

		return
	}

	ids := make([]string, 0, len(result.Timers))
	for _, t := range result.Timers {
		ids = append(ids, t.ID)
	}

	removed := s.store.RemoveMany(ids)

	logger.InfoKV(ctx, "Timers cancelled", "count", removed)

	s.speak(ctx, dialog.CancelledAll(removed))
	s.emit(ctx, notify.EventCancelled, map[string]any{"ids": ids, "count": removed})
	s.persist(ctx)
}

// stop silences ringing timers by removing them. With nothing ringing the
// user is asked, after the handler returned, whether every timer should go.
func (s *Skill) stop(ctx context.Context) {
	now := s.store.Now()

	if expired := s.store.Expired(now); len(expired) > 0 {
		ids := make([]string, 0, len(expired))
		for _, t := range expired {
			ids = append(ids, t.ID)
		}

		removed := s.store.RemoveMany(ids)

		logger.InfoKV(ctx, "Expired timers stopped", "count", removed)

		s.emit(ctx, notify.EventStoppedExpired, map[string]any{"ids": ids, "count": removed})
		s.persist(ctx)

		return
	}

	live := s.store.Live(now)
	if len(live) == 0 {
		logger.Debug(ctx, "Nothing to stop")

		return
	}

	s.followUp(ctx, func(ctx context.Context) {
		s.confirmCancelAll(ctx, len(live))
	})
}

// confirmCancelAll cancels every timer after an explicit yes.
func (s *Skill) confirmCancelAll(ctx context.Context, count int) {
	reply, answered := s.ask(ctx, dialog.ConfirmCancelAll(count))
	if !answered {
		return
	}

	if yes, understood := extract.YesNo(reply); !understood || !yes {
		logger.InfoKV(ctx, "Cancel all declined", "reply", reply)

		return
	}

	s.requestMu.Lock()
	defer s.requestMu.Unlock()

	removed := s.store.Clear()

	logger.InfoKV(ctx, "All timers cancelled", "count", removed)

	s.speak(ctx, dialog.CancelledAll(removed))
	s.emit(ctx, notify.EventCancelled, map[string]any{"count": removed})
	s.persist(ctx)
}

// mute silences the repeating alert of every ringing timer.
func (s *Skill) mute(ctx context.Context) {
	muted := s.store.MuteExpired(s.store.Now())
	if muted == 0 {
		logger.Debug(ctx, "Nothing to mute")

		return
	}

	s.speak(ctx, dialog.Silenced(muted))
	s.persist(ctx)
}

// ask poses a question.
func (s *Skill) ask(ctx context.Context, prompt dialog.Response) (string, bool) {
	return s.conversation.Ask(ctx, prompt)
}

// eventData is the bus payload describing a timer.
func eventData(t *timer.Record) map[string]any {
	return map[string]any{
		"id":         t.ID,
		"name":       t.Name,
		"duration":   t.Duration.Seconds(),
		"expiration": t.Expiration.Unix(),
	}
}
