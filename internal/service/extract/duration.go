package extract

import (
	"math"
	"regexp"
	"strings"
	"time"
)

var (
	units = map[string]time.Duration{
		"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
		"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
		"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	}

	// compactDuration matches glued forms such as "90s" or "5min".
	compactDuration = regexp.MustCompile(`^(\d+(?:\.\d+)?)([a-z]+)$`)
)

// Duration extracts the total duration mentioned in text. It returns the
// duration, the text with the duration phrases removed, and whether any
// duration was found.
func Duration(text string) (time.Duration, string, bool) {
	var (
		tokens   = tokenize(text)
		consumed = make([]bool, len(tokens))
		total    float64
		found    bool
	)

	mark := func(from, to int) {
		for k := from; k < to && k < len(tokens); k++ {
			consumed[k] = true
		}
	}

	for i := 0; i < len(tokens); {
		// "half an hour"
		if tokens[i] == "half" && isArticle(tokens, i+1) {
			if unit, ok := unitAt(tokens, i+2); ok {
				total += float64(unit) / 2
				found = true

				mark(i, i+3)
				i += 3

				continue
			}
		}

		if m := compactDuration.FindStringSubmatch(tokens[i]); m != nil {
			if unit, ok := units[m[2]]; ok {
				v, _, _ := parseNumber(m[1:2], 0)
				total += v * float64(unit)
				found = true

				mark(i, i+1)
				i++

				continue
			}
		}

		value, width, ok := parseNumber(tokens, i)
		if !ok && isArticle(tokens, i) {
			value, width, ok = 1, 1, true
		}

		if !ok {
			i++

			continue
		}

		j := i + width
		// "one and a half hours"
		if isAndAHalf(tokens, j) {
			if _, unitFollows := unitAt(tokens, j+3); unitFollows {
				value += 0.5
				j += 3
			}
		}

		unit, ok := unitAt(tokens, j)
		if !ok {
			i++

			continue
		}

		j++
		// "an hour and a half"
		if isAndAHalf(tokens, j) {
			value += 0.5
			j += 3
		}

		total += value * float64(unit)
		found = true

		mark(i, j)
		i = j
	}

	if !found {
		return 0, strings.Join(tokens, " "), false
	}

	// Drop conjunctions left between duration phrases.
	for i := 1; i < len(tokens)-1; i++ {
		if tokens[i] == "and" && consumed[i-1] && consumed[i+1] {
			consumed[i] = true
		}
	}

	remainder := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if !consumed[i] {
			remainder = append(remainder, tok)
		}
	}

	duration := time.Duration(math.Round(total/float64(time.Second))) * time.Second

	return duration, strings.Join(remainder, " "), duration > 0
}

func isArticle(tokens []string, i int) bool {
	return i < len(tokens) && (tokens[i] == "a" || tokens[i] == "an")
}

func isAndAHalf(tokens []string, i int) bool {
	return i+2 < len(tokens) &&
		tokens[i] == "and" &&
		isArticle(tokens, i+1) &&
		tokens[i+2] == "half"
}

func unitAt(tokens []string, i int) (time.Duration, bool) {
	if i >= len(tokens) {
		return 0, false
	}

	unit, ok := units[tokens[i]]

	return unit, ok
}
