package skill

import (
	"slices"
	"strings"

	"github.com/oshokin/timer-skill/internal/service/extract"
)

// Intent is the kind of request an utterance expresses.
type Intent string

// Recognized intents.
const (
	IntentStart   Intent = "start"
	IntentStatus  Intent = "status"
	IntentCount   Intent = "count"
	IntentCancel  Intent = "cancel"
	IntentStop    Intent = "stop"
	IntentMute    Intent = "mute"
	IntentReply   Intent = "reply"
	IntentUnknown Intent = "unknown"
)

var (
	muteWords   = []string{"mute", "silence", "quiet", "hush"}
	cancelWords = []string{"cancel", "delete", "remove", "kill", "clear", "end"}
	statusWords = []string{"status", "left", "remaining", "remain", "check"}
	startWords  = []string{"set", "start", "create", "begin", "make", "add", "new"}

	// stopFiller are words that may accompany a bare "stop".
	stopFiller = []string{"stop", "the", "timer", "timers", "it", "that", "please", "alarm", "beeping", "ringing", "now"}
)

// Classify maps an utterance to an intent.
func Classify(text string) Intent {
	normalized := extract.Normalize(text)
	words := strings.Fields(normalized)

	has := func(set []string) bool {
		return slices.ContainsFunc(words, func(w string) bool { return slices.Contains(set, w) })
	}

	switch {
	case len(words) == 0:
		return IntentUnknown
	case has(muteWords):
		return IntentMute
	case has(cancelWords):
		return IntentCancel
	case slices.Contains(words, "stop"):
		// "stop" on its own silences ringing timers, "stop the pasta timer" cancels one.
		if slices.ContainsFunc(words, func(w string) bool { return !slices.Contains(stopFiller, w) }) {
			return IntentCancel
		}

		return IntentStop
	case strings.Contains(normalized, "how many"):
		return IntentCount
	case strings.Contains(normalized, "how long"), strings.Contains(normalized, "how much"), has(statusWords):
		return IntentStatus
	}

	if _, _, ok := extract.Duration(normalized); ok || has(startWords) {
		return IntentStart
	}

	return IntentUnknown
}
