package extract

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	// namePatterns run in order against the text with durations removed.
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:named|called|labell?ed|titled)\s+(?P<name>.+?)(?:\s+(?:for|at|please|timer))*$`),
		regexp.MustCompile(`\b(?:the|my|a|an|for|on)\s+(?P<name>[a-z][a-z0-9' ]*?)\s+timers?\b`),
	}

	// numberedTimer catches auto-named timers at the end of a request,
	// including common transcription slips ("timer to").
	numberedTimer = regexp.MustCompile(`\btimer\s+(?:number\s+)?(?P<name>\d+|[a-z]+)$`)

	// soundAlikes maps transcription slips to the digit they stand for.
	soundAlikes = map[string]string{
		"to":  "2",
		"too": "2",
		"for": "4",
	}

	// nonNames are words that never form a timer name on their own.
	nonNames = []string{
		"a", "an", "the", "my", "this", "that", "these", "those", "of", "for", "on",
		"all", "every", "both", "everything", "other", "another", "active", "current",
		"running", "last", "next", "new", "one", "ones", "number", "timer", "timers",
		"and", "please",
	}
)

// Name extracts a timer name from text. Auto-assigned names are returned in
// their canonical "timer N" form.
func Name(text string) (string, bool) {
	normalized := Normalize(text)

	if m := numberedTimer.FindStringSubmatch(normalized); m != nil {
		if n, ok := numberedName(m[numberedTimer.SubexpIndex("name")]); ok {
			return "timer " + n, true
		}
	}

	_, remainder, _ := Duration(normalized)

	for i, pattern := range namePatterns {
		m := pattern.FindStringSubmatch(remainder)
		if m == nil {
			continue
		}

		name := trimFiller(m[pattern.SubexpIndex("name")])
		if name == "" {
			continue
		}

		// Explicitly introduced names are kept verbatim.
		if i == 0 {
			name = strings.TrimSpace(m[pattern.SubexpIndex("name")])
		}

		return name, true
	}

	return "", false
}

func numberedName(word string) (string, bool) {
	if alias, ok := soundAlikes[word]; ok {
		return alias, true
	}

	v, _, ok := parseNumber([]string{word}, 0)
	if !ok || v < 1 || v != math.Trunc(v) {
		return "", false
	}

	return strconv.Itoa(int(v)), true
}

// trimFiller strips leading and trailing filler, ordinal and number words.
func trimFiller(name string) string {
	words := strings.Fields(name)

	for len(words) > 0 && isFiller(words[0]) {
		words = words[1:]
	}

	for len(words) > 0 && isFiller(words[len(words)-1]) {
		words = words[:len(words)-1]
	}

	return strings.Join(words, " ")
}

func isFiller(word string) bool {
	if slices.Contains(nonNames, word) || slices.Contains(ordinalWords, word) {
		return true
	}

	if _, _, ok := parseNumber([]string{word}, 0); ok {
		return true
	}

	return ordinalSuffix.MatchString(word)
}
