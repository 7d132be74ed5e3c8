package timer

import (
	"strconv"
	"strings"
	"time"
)

// DefaultNamePrefix prefixes names assigned to timers the user did not name.
const DefaultNamePrefix = "timer "

// Record is a single countdown timer.
type Record struct {
	// ID uniquely identifies the timer across restarts and in bus events.
	ID string
	// Index is the creation sequence number within the current run of timers.
	Index int
	// Ordinal ranks the timer among timers sharing its duration (1-based).
	Ordinal int
	// Name is the user-given or auto-assigned name.
	Name string
	// UserNamed is true when the user supplied the name.
	UserNamed bool
	// Duration is the countdown length.
	Duration time.Duration
	// Expiration is the instant the countdown reaches zero.
	Expiration time.Time
	// Announced is true once the expiry has been communicated.
	Announced bool
	// Muted suppresses the audio alert of this timer.
	Muted bool
}

// Clone returns a copy of the record to avoid leaking internal references.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	cloned := *r

	return &cloned
}

// Expired reports whether the countdown reached zero at now.
func (r *Record) Expired(now time.Time) bool {
	return !now.Before(r.Expiration)
}

// Remaining returns the time left until expiration, never negative.
func (r *Record) Remaining(now time.Time) time.Duration {
	if r.Expired(now) {
		return 0
	}

	return r.Expiration.Sub(now)
}

// Elapsed returns the time passed since expiration, zero while live.
func (r *Record) Elapsed(now time.Time) time.Duration {
	if !r.Expired(now) {
		return 0
	}

	return now.Sub(r.Expiration)
}

// Family reports whether both timers share a duration and therefore
// need ordinals to be told apart.
func (r *Record) Family(other *Record) bool {
	return other != nil && r.Duration == other.Duration
}

// FamilyPosition returns the 1-based rank of the timer among the timers of
// its family in timers, which are expected in expiration order. A timer
// missing from timers is ranked by its expiration.
func (r *Record) FamilyPosition(timers []*Record) int {
	pos := 1

	for _, other := range timers {
		if other.ID == r.ID {
			return pos
		}

		if r.Family(other) {
			pos++
		}
	}

	pos = 1

	for _, other := range timers {
		if r.Family(other) && other.Expiration.Before(r.Expiration) {
			pos++
		}
	}

	return pos
}

// HasFamily reports whether another timer in timers shares the duration.
func (r *Record) HasFamily(timers []*Record) bool {
	for _, other := range timers {
		if other.ID != r.ID && r.Family(other) {
			return true
		}
	}

	return false
}

// DefaultName builds the auto-assigned name for the n-th unnamed timer.
func DefaultName(n int) string {
	return DefaultNamePrefix + strconv.Itoa(n)
}

// DefaultNameNumber returns n when name has the "timer n" form.
func DefaultNameNumber(name string) (int, bool) {
	rest, found := strings.CutPrefix(strings.ToLower(strings.TrimSpace(name)), DefaultNamePrefix)
	if !found {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

// Query holds the facets extracted from a request that refers to timers.
type Query struct {
	// Duration is the requested duration, zero when absent.
	Duration time.Duration
	// Name is the requested name, empty when absent.
	Name string
	// Phrase is free text compared against names when no name was found,
	// as when a clarifying reply is just "pasta".
	Phrase string
	// Ordinal is the requested position, zero when absent.
	Ordinal int
	// All is set when the request refers to every timer.
	All bool
	// Remainder is the text left after the duration was removed.
	Remainder string
}

// HasSignal reports whether any facet was extracted.
func (q *Query) HasSignal() bool {
	return q.All || q.Duration > 0 || q.Name != "" || q.Ordinal > 0
}
