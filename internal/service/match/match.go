package match

import (
	"slices"
	"strings"
	"time"

	"github.com/oshokin/timer-skill/internal/domain/timer"
	"github.com/oshokin/timer-skill/internal/service/extract"
)

// Parse extracts the query facets of text. In reply mode the text answers a
// clarifying question: a bare number counts as an ordinal and text without a
// recognizable name is compared against the timer names as a whole.
func Parse(text string, timers []*timer.Record, reply bool) timer.Query {
	var q timer.Query

	q.All = extract.HasAll(text)

	duration, remainder, ok := extract.Duration(text)
	if ok {
		q.Duration = duration
	}

	q.Remainder = remainder

	if reply {
		q.Ordinal, _ = extract.ReplyOrdinal(remainder)
	} else {
		q.Ordinal, _ = extract.Ordinal(remainder)
	}

	if name, found := extract.Name(text); found {
		q.Name = name

		return q
	}

	if reply {
		q.Phrase = extract.Normalize(text)

		return q
	}

	if !q.All {
		q.Name = exactNameHit(text, timers)
	}

	return q
}

// exactNameHit returns the longest active timer name appearing word for word
// in text.
func exactNameHit(text string, timers []*timer.Record) string {
	var hit string

	for _, t := range timers {
		if len(t.Name) > len(hit) && extract.ContainsPhrase(text, t.Name) {
			hit = t.Name
		}
	}

	return hit
}

// Match returns the timers selected by q. timers must be in expiration order.
// An empty result means the query referred to timers that do not exist.
func Match(q timer.Query, timers []*timer.Record) []*timer.Record {
	if q.All {
		return slices.Clone(timers)
	}

	var (
		narrowed   []*timer.Record
		hasSignal  bool
		byDuration []*timer.Record
		byName     []*timer.Record
	)

	if q.Duration > 0 {
		byDuration = matchDuration(q.Duration, timers)
	}

	switch {
	case q.Name != "":
		byName = matchName(q.Name, timers)
	case q.Phrase != "":
		byName = matchName(q.Phrase, timers)
		// An unmatched phrase only decides the outcome when nothing else was said.
		if len(byName) == 0 && (q.Duration > 0 || q.Ordinal > 0) {
			q.Phrase = ""
		}
	}

	nameSignal := q.Name != "" || q.Phrase != ""

	switch {
	case q.Duration > 0 && nameSignal:
		hasSignal = true

		switch {
		case len(byDuration) > 0 && len(byName) > 0:
			narrowed = intersect(byDuration, byName)
		case len(byName) > 0:
			narrowed = byName
		default:
			narrowed = byDuration
		}
	case q.Duration > 0:
		hasSignal = true
		narrowed = byDuration
	case nameSignal:
		hasSignal = true
		narrowed = byName
	}

	if hasSignal && len(narrowed) == 0 {
		return nil
	}

	if q.Ordinal > 0 {
		if !hasSignal {
			if picked := pickOrdinal(q.Ordinal, timers); picked != nil {
				return []*timer.Record{picked}
			}

			return nil
		}

		if len(narrowed) > 1 {
			if picked := pickOrdinal(q.Ordinal, narrowed); picked != nil {
				return []*timer.Record{picked}
			}
		}

		return narrowed
	}

	if !hasSignal {
		return slices.Clone(timers)
	}

	return narrowed
}

// pickOrdinal selects the n-th timer the way prompts number them: by rank
// within a duration family when exactly one family has an n-th member,
// otherwise by position in timers.
func pickOrdinal(n int, timers []*timer.Record) *timer.Record {
	var (
		picked *timer.Record
		hits   int
	)

	for _, t := range timers {
		if t.HasFamily(timers) && t.FamilyPosition(timers) == n {
			picked = t
			hits++
		}
	}

	if hits == 1 {
		return picked
	}

	if n <= len(timers) {
		return timers[n-1]
	}

	return nil
}

func matchDuration(d time.Duration, timers []*timer.Record) []*timer.Record {
	var out []*timer.Record

	for _, t := range timers {
		if t.Duration == d {
			out = append(out, t)
		}
	}

	return out
}

// matchName returns the best scoring timer whose name resembles phrase.
func matchName(phrase string, timers []*timer.Record) []*timer.Record {
	var (
		best      *timer.Record
		bestScore float64
	)

	phrase = strings.TrimSpace(phrase)

	for _, t := range timers {
		score := extract.WindowSimilarity(phrase, t.Name)
		if score == 1 {
			return []*timer.Record{t}
		}

		if score >= extract.MatchThreshold && score > bestScore {
			best, bestScore = t, score
		}
	}

	if best == nil {
		return nil
	}

	return []*timer.Record{best}
}

func intersect(a, b []*timer.Record) []*timer.Record {
	var out []*timer.Record

	for _, t := range a {
		if slices.ContainsFunc(b, func(o *timer.Record) bool { return o.ID == t.ID }) {
			out = append(out, t)
		}
	}

	return out
}
