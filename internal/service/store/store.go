package store

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/oshokin/timer-skill/internal/domain/timer"
)

// Store owns the active timers. All methods are safe for concurrent use.
type Store struct {
	// mu guards every field below.
	mu sync.RWMutex
	// timers is sorted by expiration, ties broken by index.
	timers []*timer.Record
	// index is the last assigned creation index.
	index int
	// now supplies the current time.
	now func() time.Time
	// newID generates timer identifiers.
	newID func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Now returns the store clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// Add creates a timer. An empty name gets the next free "timer N" name.
// A name colliding with an active timer fails with *timer.DuplicateNameError
// and leaves the store untouched.
func (s *Store) Add(duration time.Duration, name string) (*timer.Record, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: %s", timer.ErrInvalidDuration, duration)
	}

	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	userNamed := name != ""
	if userNamed {
		if existing := s.findLocked(name); existing != nil {
			return nil, &timer.DuplicateNameError{Existing: existing.Clone()}
		}
	} else {
		name = timer.DefaultName(s.nextDefaultNumberLocked())
	}

	if len(s.timers) == 0 {
		s.index = 0
	}

	s.index++

	record := &timer.Record{
		ID:         s.newID(),
		Index:      s.index,
		Ordinal:    s.familySizeLocked(duration) + 1,
		Name:       name,
		UserNamed:  userNamed,
		Duration:   duration,
		Expiration: s.now().Add(duration),
	}

	s.timers = append(s.timers, record)
	s.sortLocked()

	return record.Clone(), nil
}

// Remove deletes the timer with the given ID.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.positionLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", timer.ErrTimerNotFound, id)
	}

	s.timers = slices.Delete(s.timers, i, i+1)
	s.resetIndexLocked()

	return nil
}

// RemoveMany deletes every listed timer and returns the number removed.
func (s *Store) RemoveMany(ids []string) int {
	if len(ids) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.timers)
	s.timers = slices.DeleteFunc(s.timers, func(r *timer.Record) bool {
		return slices.Contains(ids, r.ID)
	})
	s.resetIndexLocked()

	return before - len(s.timers)
}

// resetIndexLocked restarts creation numbering once the store is empty.
func (s *Store) resetIndexLocked() {
	if len(s.timers) == 0 {
		s.index = 0
	}
}

// Clear removes every timer and resets the creation index.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.timers)
	s.timers = nil
	s.index = 0

	return n
}

// All returns a snapshot of every timer in expiration order.
func (s *Store) All() []*timer.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.timers, nil)
}

// Next returns the timer expiring soonest, or nil when the store is empty.
func (s *Store) Next() *timer.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.timers) == 0 {
		return nil
	}

	return s.timers[0].Clone()
}

// Count returns the number of active timers.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.timers)
}

// Index returns the last assigned creation index.
func (s *Store) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index
}

// Get returns the timer with the given ID.
func (s *Store) Get(id string) (*timer.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.positionLocked(id)
	if i < 0 {
		return nil, false
	}

	return s.timers[i].Clone(), true
}

// Find looks a timer up by name, ignoring case.
func (s *Store) Find(name string) (*timer.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.findLocked(name)
	if r == nil {
		return nil, false
	}

	return r.Clone(), true
}

// Expired returns a snapshot of the timers that reached zero at now.
func (s *Store) Expired(now time.Time) []*timer.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.timers, func(r *timer.Record) bool {
		return r.Expired(now)
	})
}

// Live returns a snapshot of the timers still counting down at now.
func (s *Store) Live(now time.Time) []*timer.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.timers, func(r *timer.Record) bool {
		return !r.Expired(now)
	})
}

// MarkAnnounced flags the timer as announced. It reports true only on the
// first transition.
func (s *Store) MarkAnnounced(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.positionLocked(id)
	if i < 0 || s.timers[i].Announced {
		return false
	}

	s.timers[i].Announced = true

	return true
}

// SetMuted toggles the audio alert of one timer.
func (s *Store) SetMuted(id string, muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.positionLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", timer.ErrTimerNotFound, id)
	}

	s.timers[i].Muted = muted

	return nil
}

// MuteExpired silences every expired timer and returns how many changed.
func (s *Store) MuteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int

	for _, r := range s.timers {
		if r.Expired(now) && !r.Muted {
			r.Muted = true
			n++
		}
	}

	return n
}

// Restore replaces the contents with previously persisted timers. The
// creation index continues from the highest restored index.
func (s *Store) Restore(records []*timer.Record) {
	restored := make([]*timer.Record, 0, len(records))
	maxIndex := 0

	for _, r := range records {
		if r == nil || r.Duration <= 0 {
			continue
		}

		c := r.Clone()
		if c.ID == "" {
			c.ID = s.newID()
		}

		maxIndex = max(maxIndex, c.Index)
		restored = append(restored, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.timers = restored
	s.index = maxIndex
	s.sortLocked()
}

// positionLocked returns the slice position of id or -1.
func (s *Store) positionLocked(id string) int {
	return slices.IndexFunc(s.timers, func(r *timer.Record) bool {
		return r.ID == id
	})
}

// findLocked returns the record whose name folds to the same value.
func (s *Store) findLocked(name string) *timer.Record {
	folded := foldName(name)
	if folded == "" {
		return nil
	}

	for _, r := range s.timers {
		if foldName(r.Name) == folded {
			return r
		}
	}

	return nil
}

// familySizeLocked counts timers sharing the duration.
func (s *Store) familySizeLocked(duration time.Duration) int {
	var n int

	for _, r := range s.timers {
		if r.Duration == duration {
			n++
		}
	}

	return n
}

// nextDefaultNumberLocked returns 1 + the highest "timer N" number in use.
func (s *Store) nextDefaultNumberLocked() int {
	highest := 0

	for _, r := range s.timers {
		if n, ok := timer.DefaultNameNumber(r.Name); ok {
			highest = max(highest, n)
		}
	}

	next := highest + 1
	// A user may have claimed the generated name explicitly.
	for s.findLocked(timer.DefaultName(next)) != nil {
		next++
	}

	return next
}

func (s *Store) sortLocked() {
	slices.SortStableFunc(s.timers, Compare)
}

// Compare orders timers by expiration, then by creation index.
func Compare(a, b *timer.Record) int {
	if c := a.Expiration.Compare(b.Expiration); c != 0 {
		return c
	}

	return a.Index - b.Index
}

// foldName normalizes a name for case-insensitive comparison.
func foldName(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

func cloneAll(records []*timer.Record, keep func(*timer.Record) bool) []*timer.Record {
	out := make([]*timer.Record, 0, len(records))

	for _, r := range records {
		if keep == nil || keep(r) {
			out = append(out, r.Clone())
		}
	}

	return out
}
