package store

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/timer-skill/internal/domain/timer"
)

var epoch = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{now: epoch}

	var seq int

	return New(
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			seq++

			return "id-" + strconv.Itoa(seq)
		}),
	), clock
}

// TestAdd_AssignsNamesIndexesAndOrdinals checks auto names, indexes and duration ordinals.
func TestAdd_AssignsNamesIndexesAndOrdinals(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	first, err := s.Add(5*time.Minute, "")
	require.NoError(t, err)
	require.Equal(t, "timer 1", first.Name)
	require.False(t, first.UserNamed)
	require.Equal(t, 1, first.Index)
	require.Equal(t, 1, first.Ordinal)
	require.Equal(t, epoch.Add(5*time.Minute), first.Expiration)

	second, err := s.Add(5*time.Minute, "")
	require.NoError(t, err)
	require.Equal(t, "timer 2", second.Name)
	require.Equal(t, 2, second.Index)
	require.Equal(t, 2, second.Ordinal)

	pasta, err := s.Add(time.Minute, "pasta")
	require.NoError(t, err)
	require.True(t, pasta.UserNamed)
	require.Equal(t, 3, pasta.Index)
	require.Equal(t, 1, pasta.Ordinal)

	require.Equal(t, 3, s.Count())
}

// TestAdd_DefaultNameFillsFromHighest verifies that auto names continue after the highest in use.
func TestAdd_DefaultNameFillsFromHighest(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	a, err := s.Add(time.Minute, "")
	require.NoError(t, err)
	_, err = s.Add(time.Minute, "")
	require.NoError(t, err)
	require.NoError(t, s.Remove(a.ID))

	c, err := s.Add(time.Minute, "")
	require.NoError(t, err)
	require.Equal(t, "timer 3", c.Name)
}

// TestAdd_DuplicateName verifies case-insensitive collisions fail without mutation.
func TestAdd_DuplicateName(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	_, err := s.Add(time.Minute, "Pasta")
	require.NoError(t, err)

	before := s.Index()

	_, err = s.Add(2*time.Minute, "  pASTA ")
	require.ErrorIs(t, err, timer.ErrDuplicateName)

	var dup *timer.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "Pasta", dup.Existing.Name)
	require.Equal(t, 1, s.Count())
	require.Equal(t, before, s.Index())
}

// TestAdd_InvalidDuration rejects non-positive durations.
func TestAdd_InvalidDuration(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	_, err := s.Add(0, "")
	require.ErrorIs(t, err, timer.ErrInvalidDuration)
	require.Zero(t, s.Count())
}

// TestIndexResetsOnlyWhenEmpty checks the creation index lifecycle.
func TestIndexResetsOnlyWhenEmpty(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	a, _ := s.Add(time.Minute, "")
	b, _ := s.Add(time.Minute, "")
	require.NoError(t, s.Remove(a.ID))

	c, err := s.Add(time.Minute, "")
	require.NoError(t, err)
	require.Equal(t, 3, c.Index)

	require.Equal(t, 2, s.RemoveMany([]string{b.ID, c.ID}))

	d, err := s.Add(time.Minute, "")
	require.NoError(t, err)
	require.Equal(t, 1, d.Index)
}

// TestRemoveLastResetsIndex restarts numbering as soon as the store empties.
func TestRemoveLastResetsIndex(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	a, _ := s.Add(time.Minute, "")
	b, _ := s.Add(2*time.Minute, "")
	require.Equal(t, 2, s.Index())

	require.NoError(t, s.Remove(a.ID))
	require.Equal(t, 2, s.Index())

	require.NoError(t, s.Remove(b.ID))
	require.Zero(t, s.Index())

	c, _ := s.Add(time.Minute, "")
	d, _ := s.Add(time.Minute, "")
	require.Equal(t, 1, s.RemoveMany([]string{c.ID}))
	require.Equal(t, 2, s.Index())

	require.Equal(t, 1, s.RemoveMany([]string{d.ID}))
	require.Zero(t, s.Index())
}

// TestOrdering keeps the collection sorted by expiration.
func TestOrdering(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore()

	long, _ := s.Add(10*time.Minute, "long")
	short, _ := s.Add(time.Minute, "short")
	clock.Advance(time.Minute)
	mid, _ := s.Add(3*time.Minute, "mid")

	all := s.All()
	require.Len(t, all, 3)
	require.Equal(t, []string{short.ID, mid.ID, long.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
	require.Equal(t, short.ID, s.Next().ID)
}

// TestSnapshotsAreCopies verifies callers cannot mutate internal state.
func TestSnapshotsAreCopies(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	r, _ := s.Add(time.Minute, "")
	r.Name = "changed"

	all := s.All()
	all[0].Announced = true

	got, ok := s.Get(r.ID)
	require.True(t, ok)
	require.Equal(t, "timer 1", got.Name)
	require.False(t, got.Announced)
}

// TestNextEmpty verifies Next on an empty store.
func TestNextEmpty(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()
	require.Nil(t, s.Next())
	require.Empty(t, s.All())
}

// TestRemove_Unknown verifies unknown IDs report ErrTimerNotFound.
func TestRemove_Unknown(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()
	require.ErrorIs(t, s.Remove("nope"), timer.ErrTimerNotFound)
	require.ErrorIs(t, s.SetMuted("nope", true), timer.ErrTimerNotFound)
}

// TestFind looks timers up by name regardless of case.
func TestFind(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	r, _ := s.Add(time.Minute, "Boiled Eggs")

	got, ok := s.Find("boiled   EGGS")
	require.True(t, ok)
	require.Equal(t, r.ID, got.ID)

	_, ok = s.Find("pasta")
	require.False(t, ok)
}

// TestExpiredAndLive splits the collection at the current instant.
func TestExpiredAndLive(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore()

	short, _ := s.Add(time.Minute, "")
	long, _ := s.Add(time.Hour, "")

	clock.Advance(2 * time.Minute)
	now := clock.Now()

	expired := s.Expired(now)
	require.Len(t, expired, 1)
	require.Equal(t, short.ID, expired[0].ID)

	live := s.Live(now)
	require.Len(t, live, 1)
	require.Equal(t, long.ID, live[0].ID)

	require.Equal(t, 1, s.MuteExpired(now))
	require.Zero(t, s.MuteExpired(now))

	got, _ := s.Get(short.ID)
	require.True(t, got.Muted)
}

// TestMarkAnnounced only transitions once.
func TestMarkAnnounced(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	r, _ := s.Add(time.Minute, "")
	require.True(t, s.MarkAnnounced(r.ID))
	require.False(t, s.MarkAnnounced(r.ID))
	require.False(t, s.MarkAnnounced("unknown"))
}

// TestClear empties the store and resets the index.
func TestClear(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	_, _ = s.Add(time.Minute, "")
	_, _ = s.Add(time.Minute, "")
	require.Equal(t, 2, s.Clear())
	require.Zero(t, s.Count())
	require.Zero(t, s.Index())
}

// TestRestore recomputes the index counter and ordering.
func TestRestore(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore()

	s.Restore([]*timer.Record{
		{ID: "b", Index: 7, Name: "b", Duration: time.Minute, Expiration: epoch.Add(2 * time.Minute)},
		{ID: "a", Index: 3, Name: "a", Duration: time.Minute, Expiration: epoch.Add(time.Minute)},
		nil,
		{ID: "bad", Index: 9, Duration: 0},
	})

	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, "a", all[0].ID)
	require.Equal(t, 7, s.Index())

	next, err := s.Add(time.Minute, "")
	require.NoError(t, err)
	require.Equal(t, 8, next.Index)

	s.Restore(nil)
	require.Zero(t, s.Index())
	require.Zero(t, s.Count())
}

// TestConcurrentAdd exercises the store under parallel writers.
func TestConcurrentAdd(t *testing.T) {
	t.Parallel()
	s := New()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			_, err := s.Add(time.Minute, "")
			require.NoError(t, err)
		})
	}

	wg.Wait()

	require.Equal(t, 50, s.Count())
	require.Equal(t, 50, s.Index())
}
