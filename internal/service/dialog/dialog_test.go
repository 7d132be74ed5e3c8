package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/timer-skill/internal/domain/timer"
)

var now = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func record(id string, d time.Duration, name string, userNamed bool, ordinal int) *timer.Record {
	return &timer.Record{
		ID:         id,
		Name:       name,
		UserNamed:  userNamed,
		Duration:   d,
		Ordinal:    ordinal,
		Expiration: now.Add(d),
	}
}

// TestStarted verifies named and ordinal variants of the start announcement.
func TestStarted(t *testing.T) {
	t.Parallel()

	single := record("a", 5*time.Minute, "timer 1", false, 1)
	r := Started(single, []*timer.Record{single})
	require.Equal(t, "started-timer", r.ID)
	require.Equal(t, "5 minutes", r.Param(ParamDuration))
	require.Empty(t, r.Param(ParamName))

	second := record("b", 5*time.Minute, "timer 2", false, 2)
	r = Started(second, []*timer.Record{single, second})
	require.Equal(t, "started-timer-named-ordinal", r.ID)
	require.Equal(t, "timer 2", r.Param(ParamName))
	require.Equal(t, "second", r.Param(ParamOrdinal))

	pasta := record("c", time.Minute, "pasta", true, 1)
	r = Started(pasta, []*timer.Record{pasta})
	require.Equal(t, "started-timer-named", r.ID)
}

// TestStatus covers remaining and elapsed variants.
func TestStatus(t *testing.T) {
	t.Parallel()

	eggs := record("a", 10*time.Minute, "eggs", true, 1)

	r := Status(eggs, []*timer.Record{eggs}, now.Add(4*time.Minute))
	require.Equal(t, "time-remaining-named", r.ID)
	require.Equal(t, "6 minutes", r.Param(ParamTimeDiff))

	r = Status(eggs, []*timer.Record{eggs}, now.Add(11*time.Minute+5*time.Second))
	require.Equal(t, "time-elapsed-named", r.ID)
	require.Equal(t, "1 minute 5 seconds", r.Param(ParamTimeDiff))

	first := record("b", 10*time.Minute, "timer 1", false, 1)
	r = Status(first, []*timer.Record{first, eggs}, now)
	require.Equal(t, "time-remaining-ordinal", r.ID)
	require.Equal(t, "first", r.Param(ParamOrdinal))
}

// TestCancelled covers the single-timer shortcut.
func TestCancelled(t *testing.T) {
	t.Parallel()

	only := record("a", time.Minute, "timer 1", false, 1)
	require.Equal(t, "cancelled-single-timer", Cancelled(only, []*timer.Record{only}).ID)

	other := record("b", 2*time.Minute, "timer 2", false, 1)
	require.Equal(t, "cancelled-timer", Cancelled(only, []*timer.Record{only, other}).ID)

	named := record("c", time.Minute, "tea", true, 1)
	require.Equal(t, "cancelled-timer-named", Cancelled(named, []*timer.Record{named}).ID)
}

// TestExpired picks the expiry template.
func TestExpired(t *testing.T) {
	t.Parallel()

	a := record("a", time.Minute, "timer 1", false, 1)
	b := record("b", time.Minute, "timer 2", false, 2)

	require.Equal(t, "timer-expired", Expired(a, []*timer.Record{a}).ID)
	require.Equal(t, "timer-expired-ordinal", Expired(b, []*timer.Record{a, b}).ID)
}

// TestCountTemplates carries the count for plural selection.
func TestCountTemplates(t *testing.T) {
	t.Parallel()

	require.Equal(t, Response{ID: "cancel-all", Count: 2}, CancelledAll(2))
	require.Equal(t, Response{ID: "confirm-cancel-all", Count: 3}, ConfirmCancelAll(3))
	require.Equal(t, Response{ID: "number-of-timers", Count: 1}, StatusCount(1))
}

// TestSpeakDuration renders durations for speech.
func TestSpeakDuration(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0 seconds", SpeakDuration(0))
	require.Equal(t, "1 second", SpeakDuration(time.Second))
	require.Equal(t, "1 hour 30 minutes", SpeakDuration(90*time.Minute))
	require.Equal(t, "2 days 1 hour", SpeakDuration(49*time.Hour))
	require.Equal(t, "45 seconds", SpeakDuration(45*time.Second+300*time.Millisecond))
}

// TestFormatClock renders durations for displays.
func TestFormatClock(t *testing.T) {
	t.Parallel()

	require.Equal(t, "05:00", FormatClock(5*time.Minute))
	require.Equal(t, "1:02:03", FormatClock(time.Hour+2*time.Minute+3*time.Second))
	require.Equal(t, "00:07", FormatClock(-7*time.Second))
}

// TestRenderer renders catalogue messages with parameters and plurals.
func TestRenderer(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer("en")
	require.NoError(t, err)
	require.Contains(t, r.Languages(), "en")

	ctx := context.Background()

	pasta := record("a", 5*time.Minute, "pasta", true, 1)
	require.Equal(t, "Started pasta for 5 minutes.", r.Render(ctx, Started(pasta, []*timer.Record{pasta})))

	require.Equal(t, "Your timer was cancelled.", r.Render(ctx, CancelledAll(1)))
	require.Equal(t, "All 2 timers were cancelled.", r.Render(ctx, CancelledAll(2)))

	first := record("b", time.Minute, "timer 1", false, 1)
	second := record("c", time.Minute, "timer 2", false, 2)
	active := []*timer.Record{first, second, pasta}

	require.Equal(t,
		"There are 2 timers: the first 1 minute timer or the second 1 minute timer. Which one?",
		r.Render(ctx, AskWhich([]*timer.Record{first, second}, active)),
	)

	require.Equal(t, "unknown-message", r.Render(ctx, Response{ID: "unknown-message"}))
}

// TestRendererFallsBackToEnglish uses English for unknown languages.
func TestRendererFallsBackToEnglish(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer("xx")
	require.NoError(t, err)
	require.Equal(t, "You don't have any active timers.", r.Render(context.Background(), NoActiveTimers()))
}

// TestDetails_SpeaksFamilyRank names the current rank, not the creation order.
func TestDetails_SpeaksFamilyRank(t *testing.T) {
	t.Parallel()

	second := record("b", 5*time.Minute, "timer 2", false, 2)
	third := record("c", 5*time.Minute, "timer 3", false, 3)
	third.Expiration = third.Expiration.Add(time.Second)
	active := []*timer.Record{second, third}

	require.Equal(t, "first", Details(second, active).Param(ParamOrdinal))
	require.Equal(t, "second", Details(third, active).Param(ParamOrdinal))

	lone := record("d", 5*time.Minute, "timer 4", false, 4)
	require.Empty(t, Details(lone, []*timer.Record{lone}).Param(ParamOrdinal))
}
