package dialog

import (
	"time"

	"github.com/oshokin/timer-skill/internal/domain/timer"
)

// Started announces a freshly created timer. Auto-assigned names are spoken
// as soon as more than one timer is active.
func Started(t *timer.Record, active []*timer.Record) Response {
	r := Response{
		ID:     StartedTimer,
		Params: map[string]string{ParamDuration: SpeakDuration(t.Duration)},
	}

	if t.UserNamed || len(active) > 1 {
		r.ID += namedSuffix
		r.Params[ParamName] = t.Name
	}

	return withOrdinal(r, t, active)
}

// Status reports the time remaining on a live timer or the time elapsed
// since an expired one rang.
func Status(t *timer.Record, active []*timer.Record, now time.Time) Response {
	r := Response{
		ID:     TimeRemaining,
		Params: map[string]string{ParamDuration: SpeakDuration(t.Duration)},
	}

	if t.Expired(now) {
		r.ID = TimeElapsed
		r.Params[ParamTimeDiff] = SpeakDuration(t.Elapsed(now))
	} else {
		r.Params[ParamTimeDiff] = SpeakDuration(t.Remaining(now))
	}

	return withOrdinal(withName(r, t), t, active)
}

// Details describes a timer so the user can pick it from a list.
func Details(t *timer.Record, active []*timer.Record) Response {
	r := Response{
		ID:     TimerDetails,
		Params: map[string]string{ParamDuration: SpeakDuration(t.Duration)},
	}

	return withOrdinal(withName(r, t), t, active)
}

// Cancelled confirms a single cancellation. active is the collection as it
// was before the removal.
func Cancelled(t *timer.Record, active []*timer.Record) Response {
	r := Response{
		ID:     CancelledTimer,
		Params: map[string]string{ParamDuration: SpeakDuration(t.Duration)},
	}

	if len(active) == 1 && !t.UserNamed {
		r.ID = CancelledSingle

		return r
	}

	return withOrdinal(withName(r, t), t, active)
}

// CancelledAll confirms cancelling count timers.
func CancelledAll(count int) Response {
	return Response{ID: CancelAll, Count: count}
}

// Expired announces that a timer reached zero.
func Expired(t *timer.Record, active []*timer.Record) Response {
	r := Response{
		ID:     TimerExpired,
		Params: map[string]string{ParamDuration: SpeakDuration(t.Duration)},
	}

	return withOrdinal(withName(r, t), t, active)
}

// AskWhich asks the user to choose among candidates.
func AskWhich(candidates, active []*timer.Record) Response {
	r := Response{
		ID:    AskWhichTimer,
		Count: len(candidates),
		Items: make([]Response, 0, len(candidates)),
	}

	for _, c := range candidates {
		r.Items = append(r.Items, Details(c, active))
	}

	return r
}

// ConfirmCancelAll asks whether count live timers should be cancelled.
func ConfirmCancelAll(count int) Response {
	return Response{ID: ConfirmCancel, Count: count}
}

// DuplicateName reports that a timer with the requested name already runs.
func DuplicateName(existing *timer.Record, now time.Time) Response {
	return Response{
		ID: TimerDuplicateName,
		Params: map[string]string{
			ParamName:     existing.Name,
			ParamTimeDiff: SpeakDuration(existing.Remaining(now)),
		},
	}
}

// NoActiveTimers reports an empty collection.
func NoActiveTimers() Response {
	return Response{ID: NoActiveTimer}
}

// NotFound reports that nothing matched the request.
func NotFound() Response {
	return Response{ID: TimerNotFound}
}

// AskDuration asks for the missing timer length.
func AskDuration() Response {
	return Response{ID: AskHowLong}
}

// NoDuration gives up after no duration was heard.
func NoDuration() Response {
	return Response{ID: NoDurationHeard}
}

// AlarmInstead suggests an alarm for a very long duration.
func AlarmInstead(d time.Duration) Response {
	return Response{
		ID:     TooLongAlarm,
		Params: map[string]string{ParamDuration: SpeakDuration(d)},
	}
}

// StatusCount reports how many timers are active.
func StatusCount(count int) Response {
	return Response{ID: NumberOfTimers, Count: count}
}

// Silenced confirms muting count ringing timers.
func Silenced(count int) Response {
	return Response{ID: TimersSilenced, Count: count}
}

func withName(r Response, t *timer.Record) Response {
	if t.UserNamed {
		r.ID += namedSuffix
		r.Params[ParamName] = t.Name
	}

	return r
}

// withOrdinal adds the family position when another active timer shares the
// duration. Replies to a clarifying question are matched by the same rank.
func withOrdinal(r Response, t *timer.Record, active []*timer.Record) Response {
	if !t.HasFamily(active) {
		return r
	}

	r.ID += ordinalSuffix
	r.Params[ParamOrdinal] = SpeakOrdinal(t.FamilyPosition(active))

	return r
}
