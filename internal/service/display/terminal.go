package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const (
	// terminalCapacity is the number of rows in the panel.
	terminalCapacity = 4
	// barWidth is the width of the progress bar in cells.
	barWidth = 20
)

var (
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	muted       = lipgloss.Color("#6b7280")
)

// Terminal draws a bordered lipgloss panel listing the visible timers.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer

	panel   lipgloss.Style
	name    lipgloss.Style
	live    lipgloss.Style
	ringing lipgloss.Style
	footer  lipgloss.Style
}

// NewTerminal creates a panel writing to w. Colors follow w's capabilities.
func NewTerminal(w io.Writer) *Terminal {
	r := lipgloss.NewRenderer(w)

	return &Terminal{
		w: w,
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		name:    r.NewStyle().Bold(true).Width(16),
		live:    r.NewStyle().Foreground(accent),
		ringing: r.NewStyle().Foreground(destructive).Bold(true),
		footer:  r.NewStyle().Foreground(muted).Italic(true),
	}
}

// Name implements Strategy.
func (*Terminal) Name() string { return CapabilityTerminal }

// Capacity implements Strategy.
func (*Terminal) Capacity() int { return terminalCapacity }

// Show implements Strategy.
func (t *Terminal) Show(_ context.Context, frame Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if frame.Empty() {
		_, err := fmt.Fprintln(t.w, t.footer.Render("no active timers"))

		return err
	}

	rows := make([]string, 0, len(frame.Entries)+1)

	for _, e := range frame.Entries {
		clock := t.live.Render(e.Clock)
		if e.Expired {
			clock = t.ringing.Render("-" + e.Clock)
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			t.name.Render(e.Name),
			bar(e.Progress),
			" ",
			clock,
		))
	}

	if hidden := frame.Total - len(frame.Entries); hidden > 0 {
		rows = append(rows, t.footer.Render(fmt.Sprintf("+%d more", hidden)))
	}

	_, err := fmt.Fprintln(t.w, t.panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))

	return err
}

// bar renders progress in [0, 1] as a fixed-width bar.
func bar(progress float64) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * barWidth)

	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
