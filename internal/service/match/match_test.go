package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/timer-skill/internal/domain/timer"
)

var epoch = time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

// fixture builds an expiration ordered collection.
func fixture() []*timer.Record {
	return []*timer.Record{
		{ID: "t1", Index: 1, Ordinal: 1, Name: "timer 1", Duration: 5 * time.Minute, Expiration: epoch.Add(5 * time.Minute)},
		{ID: "t2", Index: 2, Ordinal: 2, Name: "timer 2", Duration: 5 * time.Minute, Expiration: epoch.Add(5*time.Minute + time.Second)},
		{ID: "pasta", Index: 3, Ordinal: 1, Name: "pasta", UserNamed: true, Duration: 10 * time.Minute, Expiration: epoch.Add(10 * time.Minute)},
		{ID: "eggs", Index: 4, Ordinal: 1, Name: "boiled eggs", UserNamed: true, Duration: 12 * time.Minute, Expiration: epoch.Add(12 * time.Minute)},
	}
}

func ids(records []*timer.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}

	return out
}

// TestMatch runs the cascade over request utterances.
func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"all marker wins", "cancel all 5 minute timers", []string{"t1", "t2", "pasta", "eggs"}},
		{"duration", "cancel the 10 minute timer", []string{"pasta"}},
		{"duration family", "how long is left on the 5 minute timer", []string{"t1", "t2"}},
		{"duration ordinal", "cancel the second 5 minute timer", []string{"t2"}},
		{"extracted name", "cancel the pasta timer", []string{"pasta"}},
		{"fuzzy name", "cancel the pastah timer", []string{"pasta"}},
		{"exact window hit", "cancel boiled eggs", []string{"eggs"}},
		{"auto name", "cancel timer 2", []string{"t2"}},
		{"name and duration", "cancel the 10 minute pasta timer", []string{"pasta"}},
		{"name beats unmatched duration", "cancel the 7 minute pasta timer", []string{"pasta"}},
		{"ordinal over all", "cancel the third timer", []string{"pasta"}},
		{"ordinal out of range", "cancel the ninth timer", nil},
		{"unknown name", "cancel the lasagna timer", nil},
		{"unknown duration", "cancel the 3 minute timer", nil},
		{"no signal", "cancel timer", []string{"t1", "t2", "pasta", "eggs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			timers := fixture()
			got := Match(Parse(tt.text, timers, false), timers)

			if tt.want == nil {
				require.Empty(t, got)

				return
			}

			require.Equal(t, tt.want, ids(got))
		})
	}
}

// TestMatch_SingleNarrowedIgnoresOrdinal keeps a unique match regardless of ordinal.
func TestMatch_SingleNarrowedIgnoresOrdinal(t *testing.T) {
	t.Parallel()

	timers := fixture()
	got := Match(timer.Query{Duration: 10 * time.Minute, Ordinal: 3}, timers)
	require.Equal(t, []string{"pasta"}, ids(got))
}

// TestMatch_OutOfRangeOrdinalKeepsNarrowed keeps the narrowed set.
func TestMatch_OutOfRangeOrdinalKeepsNarrowed(t *testing.T) {
	t.Parallel()

	timers := fixture()
	got := Match(timer.Query{Duration: 5 * time.Minute, Ordinal: 7}, timers)
	require.Equal(t, []string{"t1", "t2"}, ids(got))
}

// TestMatch_ExactScoreWins accepts a perfect score immediately.
func TestMatch_ExactScoreWins(t *testing.T) {
	t.Parallel()

	timers := []*timer.Record{
		{ID: "a", Name: "pastas", Duration: time.Minute},
		{ID: "b", Name: "pasta", Duration: time.Minute},
	}

	got := Match(timer.Query{Name: "pasta"}, timers)
	require.Equal(t, []string{"b"}, ids(got))
}

// TestMatch_Reply covers reply-mode parsing against candidates.
func TestMatch_Reply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		reply string
		want  []string
	}{
		{"pasta", []string{"pasta"}},
		{"the second one", []string{"t2"}},
		{"2", []string{"t2"}},
		{"the 10 minute one", []string{"pasta"}},
		{"purple", nil},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			t.Parallel()

			timers := fixture()
			got := Match(Parse(tt.reply, timers, true), timers)

			if tt.want == nil {
				require.Empty(t, got)

				return
			}

			require.Equal(t, tt.want, ids(got))
		})
	}
}

// TestMatch_OrdinalFollowsFamilyRank selects by the rank dialogs speak and
// falls back to the list position.
func TestMatch_OrdinalFollowsFamilyRank(t *testing.T) {
	t.Parallel()

	timers := []*timer.Record{
		{ID: "a", Index: 2, Ordinal: 2, Duration: 5 * time.Minute, Expiration: epoch.Add(5 * time.Minute)},
		{ID: "x", Index: 4, Ordinal: 1, Duration: 6 * time.Minute, Expiration: epoch.Add(6 * time.Minute)},
		{ID: "b", Index: 3, Ordinal: 3, Duration: 5 * time.Minute, Expiration: epoch.Add(7 * time.Minute)},
	}

	require.Equal(t, []string{"b"}, ids(Match(timer.Query{Ordinal: 2}, timers)))
	require.Equal(t, []string{"a"}, ids(Match(timer.Query{Ordinal: 1}, timers)))
	require.Equal(t, []string{"b"}, ids(Match(timer.Query{Ordinal: 3}, timers)))
	require.Empty(t, Match(timer.Query{Ordinal: 4}, timers))

	got := Match(timer.Query{Duration: 5 * time.Minute, Ordinal: 2}, timers)
	require.Equal(t, []string{"b"}, ids(got))
}
