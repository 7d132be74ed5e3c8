package timer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRecordClone verifies that Clone returns a copy and handles nil safely.
func TestRecordClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Record)(nil).Clone())

	r := &Record{
		ID:       "a",
		Name:     "pasta",
		Duration: 5 * time.Minute,
	}

	c := r.Clone()
	require.Equal(t, r, c)
	require.NotSame(t, r, c)

	c.Announced = true
	require.False(t, r.Announced)
}

// TestRecordTimes checks Expired, Remaining and Elapsed around the expiration instant.
func TestRecordTimes(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &Record{Duration: time.Minute, Expiration: start.Add(time.Minute)}

	require.False(t, r.Expired(start))
	require.Equal(t, time.Minute, r.Remaining(start))
	require.Zero(t, r.Elapsed(start))

	require.True(t, r.Expired(start.Add(time.Minute)))

	later := start.Add(90 * time.Second)
	require.Zero(t, r.Remaining(later))
	require.Equal(t, 30*time.Second, r.Elapsed(later))
}

// TestDefaultName verifies the auto-assigned name format and its parser.
func TestDefaultName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "timer 3", DefaultName(3))

	n, ok := DefaultNameNumber("Timer 12")
	require.True(t, ok)
	require.Equal(t, 12, n)

	for _, name := range []string{"pasta", "timer", "timer x", "timer 0"} {
		_, ok = DefaultNameNumber(name)
		require.False(t, ok, name)
	}
}

// TestDuplicateNameError verifies the error unwraps to ErrDuplicateName.
func TestDuplicateNameError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("add: %w", &DuplicateNameError{Existing: &Record{Name: "eggs"}})
	require.ErrorIs(t, err, ErrDuplicateName)

	var dup *DuplicateNameError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "eggs", dup.Existing.Name)
}

// TestQueryHasSignal checks facet detection.
func TestQueryHasSignal(t *testing.T) {
	t.Parallel()

	require.False(t, (&Query{Remainder: "cancel"}).HasSignal())
	require.True(t, (&Query{All: true}).HasSignal())
	require.True(t, (&Query{Ordinal: 2}).HasSignal())
	require.True(t, (&Query{Name: "pasta"}).HasSignal())
	require.True(t, (&Query{Duration: time.Minute}).HasSignal())
}

// TestActorClone verifies that Clone returns a copy and handles nil safely.
func TestActorClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Actor)(nil).Clone())

	a := &Actor{
		Hostname: "kitchen",
		Username: "o.shokin",
	}

	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
	require.Equal(t, "o.shokin@kitchen", b.String())
	require.Empty(t, (*Actor)(nil).String())
}

// TestFamilyPosition ranks timers within their duration family.
func TestFamilyPosition(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := &Record{ID: "a", Duration: time.Minute, Expiration: base.Add(time.Minute)}
	other := &Record{ID: "o", Duration: time.Hour, Expiration: base.Add(time.Hour)}
	b := &Record{ID: "b", Duration: time.Minute, Expiration: base.Add(2 * time.Minute)}
	timers := []*Record{a, b, other}

	require.Equal(t, 1, a.FamilyPosition(timers))
	require.Equal(t, 2, b.FamilyPosition(timers))
	require.Equal(t, 1, other.FamilyPosition(timers))
	require.True(t, b.HasFamily(timers))
	require.False(t, other.HasFamily(timers))

	// Unlisted timers rank by expiration.
	c := &Record{ID: "c", Duration: time.Minute, Expiration: base.Add(90 * time.Second)}
	require.Equal(t, 2, c.FamilyPosition(timers))
}
