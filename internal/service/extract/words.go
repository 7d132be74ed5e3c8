package extract

import (
	"slices"
	"strings"
)

var (
	allMarkers = []string{"all", "every", "both", "everything"}

	yesWords = []string{"yes", "yeah", "yep", "yup", "sure", "ok", "okay", "affirmative", "correct", "absolutely", "definitely"}
	noWords  = []string{"no", "nope", "nah", "negative", "don't", "dont", "not", "never"}

	yesPhrases = []string{"go ahead", "do it", "please do", "of course"}
	noPhrases  = []string{"never mind", "nevermind", "forget it"}
)

// HasAll reports whether text refers to every timer.
func HasAll(text string) bool {
	for _, tok := range tokenize(text) {
		if slices.Contains(allMarkers, tok) {
			return true
		}
	}

	return false
}

// YesNo interprets a confirmation reply. The second result is false when the
// reply is neither a yes nor a no.
func YesNo(text string) (yes, ok bool) {
	normalized := " " + Normalize(text) + " "

	for _, phrase := range noPhrases {
		if strings.Contains(normalized, " "+phrase+" ") {
			return false, true
		}
	}

	for _, tok := range tokenize(text) {
		if slices.Contains(noWords, tok) {
			return false, true
		}

		if slices.Contains(yesWords, tok) {
			return true, true
		}
	}

	for _, phrase := range yesPhrases {
		if strings.Contains(normalized, " "+phrase+" ") {
			return true, true
		}
	}

	return false, false
}
