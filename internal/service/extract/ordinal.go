package extract

import (
	"regexp"
	"slices"
	"strconv"
)

// ordinalSuffix matches numeric ordinals such as "1st" or "22nd".
var ordinalSuffix = regexp.MustCompile(`^(\d+)(?:st|nd|rd|th)$`)

// replyFiller lists words ignored when a reply consists of a bare number.
var replyFiller = []string{"the", "one", "number", "timer", "please"}

// Ordinal extracts an ordinal reference such as "second", "3rd" or
// "number 4".
func Ordinal(text string) (int, bool) {
	tokens := tokenize(text)

	for i, tok := range tokens {
		if n := slices.Index(ordinalWords, tok); n >= 0 {
			return n + 1, true
		}

		if m := ordinalSuffix.FindStringSubmatch(tok); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n, true
			}
		}

		if tok == "number" {
			if v, _, ok := parseNumber(tokens, i+1); ok && v >= 1 && v == float64(int(v)) {
				return int(v), true
			}
		}
	}

	return 0, false
}

// ReplyOrdinal is Ordinal that also accepts a reply made of a bare number,
// as in "2" or "the two".
func ReplyOrdinal(text string) (int, bool) {
	if n, ok := Ordinal(text); ok {
		return n, true
	}

	tokens := slices.DeleteFunc(tokenize(text), func(tok string) bool {
		return slices.Contains(replyFiller, tok)
	})

	v, width, ok := parseNumber(tokens, 0)
	if !ok || width != len(tokens) || v < 1 || v != float64(int(v)) {
		return 0, false
	}

	return int(v), true
}
