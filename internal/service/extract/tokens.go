package extract

import (
	"strconv"
	"strings"
)

var (
	ones = map[string]int{
		"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
		"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
		"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
		"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	}

	tens = map[string]int{
		"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
		"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	}

	ordinalWords = []string{
		"first", "second", "third", "fourth", "fifth",
		"sixth", "seventh", "eighth", "ninth", "tenth",
	}
)

// Normalize lowercases text, turns dashes into spaces and strips punctuation
// around words.
func Normalize(text string) string {
	return strings.Join(tokenize(text), " ")
}

func tokenize(text string) []string {
	text = strings.ToLower(strings.ReplaceAll(text, "-", " "))
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))

	for _, f := range fields {
		f = strings.Trim(f, `.,!?;:"()`)
		if f != "" {
			tokens = append(tokens, f)
		}
	}

	return tokens
}

// parseNumber reads a number starting at tokens[i] and returns its value and
// the number of tokens consumed.
func parseNumber(tokens []string, i int) (float64, int, bool) {
	if i >= len(tokens) {
		return 0, 0, false
	}

	tok := tokens[i]

	if v, err := strconv.ParseFloat(tok, 64); err == nil && v >= 0 {
		return v, 1, true
	}

	if v, ok := ones[tok]; ok {
		return float64(v), 1, true
	}

	if v, ok := tens[tok]; ok {
		if i+1 < len(tokens) {
			if u, found := ones[tokens[i+1]]; found && u > 0 && u < 10 {
				return float64(v + u), 2, true
			}
		}

		return float64(v), 1, true
	}

	return 0, 0, false
}

// OrdinalWord returns the spoken ordinal for n ("first", "second", ...).
func OrdinalWord(n int) string {
	if n >= 1 && n <= len(ordinalWords) {
		return ordinalWords[n-1]
	}

	suffix := "th"

	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}

	return strconv.Itoa(n) + suffix
}
