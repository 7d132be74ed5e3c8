package extract

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// MatchThreshold is the minimum similarity for a fuzzy name match.
const MatchThreshold = 0.7

// Similarity returns the case-insensitive normalized Levenshtein similarity
// of a and b in [0, 1].
func Similarity(a, b string) float64 {
	metric := metrics.NewLevenshtein()
	metric.CaseSensitive = false

	return strutil.Similarity(Normalize(a), Normalize(b), metric)
}

// WindowSimilarity slides a window the size of name over phrase and returns
// the best similarity found.
func WindowSimilarity(phrase, name string) float64 {
	var (
		words = tokenize(phrase)
		width = len(tokenize(name))
	)

	if width == 0 || len(words) <= width {
		return Similarity(phrase, name)
	}

	var best float64

	for i := 0; i+width <= len(words); i++ {
		score := Similarity(strings.Join(words[i:i+width], " "), name)
		if score > best {
			best = score
		}

		if best == 1 {
			break
		}
	}

	return best
}

// ContainsPhrase reports whether the words of name appear contiguously in text.
func ContainsPhrase(text, name string) bool {
	needle := Normalize(name)
	if needle == "" {
		return false
	}

	return strings.Contains(" "+Normalize(text)+" ", " "+needle+" ")
}
