package dialog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/timer-skill/internal/service/extract"
)

const day = 24 * time.Hour

// SpeakDuration renders a duration for speech, e.g. "1 hour 30 minutes".
// Sub-second precision is dropped.
func SpeakDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < 0 {
		d = -d
	}

	if d == 0 {
		return "0 seconds"
	}

	parts := make([]string, 0, 4)

	for _, unit := range []struct {
		size time.Duration
		name string
	}{
		{day, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
		{time.Second, "second"},
	} {
		n := d / unit.size
		if n == 0 {
			continue
		}

		d -= n * unit.size

		word := unit.name
		if n != 1 {
			word += "s"
		}

		parts = append(parts, strconv.FormatInt(int64(n), 10)+" "+word)
	}

	return strings.Join(parts, " ")
}

// SpeakOrdinal renders an ordinal for speech, e.g. "second".
func SpeakOrdinal(n int) string {
	return extract.OrdinalWord(n)
}

// FormatClock renders a duration for a display, e.g. "05:00" or "1:02:03".
func FormatClock(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < 0 {
		d = -d
	}

	var (
		hours   = int64(d / time.Hour)
		minutes = int64(d%time.Hour) / int64(time.Minute)
		seconds = int64(d%time.Minute) / int64(time.Second)
	)

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}

	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
