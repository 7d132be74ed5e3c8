package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/timer-skill/internal/domain/timer"
	"github.com/oshokin/timer-skill/internal/logger"
	"github.com/oshokin/timer-skill/internal/service/dialog"
	"github.com/oshokin/timer-skill/internal/service/display"
	"github.com/oshokin/timer-skill/internal/service/notify"
)

// Default intervals used when Options leave them unset.
const (
	DefaultCheckInterval   = time.Second
	DefaultRepeatInterval  = 10 * time.Second
	DefaultDisplayInterval = time.Second
	DefaultRotateEvery     = 5
)

// Source is the view of the timer store the monitor needs.
type Source interface {
	All() []*timer.Record
	MarkAnnounced(id string) bool
}

// Options configures a Monitor.
type Options struct {
	// Source provides the timers.
	Source Source
	// Notifier delivers alerts, speech, frames and bus events.
	Notifier notify.Notifier
	// Capacity is the number of timers the display shows at once; zero
	// disables display refreshes.
	Capacity int
	// CheckInterval is the period of expiry checks.
	CheckInterval time.Duration
	// RepeatInterval is the period of repeated alert sounds.
	RepeatInterval time.Duration
	// DisplayInterval is the period of display refreshes.
	DisplayInterval time.Duration
	// RotateEvery is the number of refreshes a page stays on screen.
	RotateEvery int
	// Muted silences every alert sound.
	Muted bool
	// Now supplies the current time.
	Now func() time.Time
}

// Monitor drives expiry announcements and display refreshes.
type Monitor struct {
	source   Source
	notifier notify.Notifier
	capacity int
	check    time.Duration
	repeat   time.Duration
	refresh  time.Duration
	rotate   int
	muted    bool
	now      func() time.Time

	// mu guards the fields below.
	mu sync.Mutex
	// paused counts nested Pause calls.
	paused int
	// lastAlert holds the last alert sound time per timer ID.
	lastAlert map[string]time.Time
	// offset is the first visible timer when rotating.
	offset int
	// pageRefreshes counts refreshes of the current page.
	pageRefreshes int
	// cleared is set once an empty frame was sent.
	cleared bool
}

// New creates a Monitor.
func New(opts *Options) *Monitor {
	m := &Monitor{
		source:    opts.Source,
		notifier:  opts.Notifier,
		capacity:  opts.Capacity,
		check:     opts.CheckInterval,
		repeat:    opts.RepeatInterval,
		refresh:   opts.DisplayInterval,
		rotate:    opts.RotateEvery,
		muted:     opts.Muted,
		now:       opts.Now,
		lastAlert: make(map[string]time.Time),
		cleared:   true,
	}

	if m.check <= 0 {
		m.check = DefaultCheckInterval
	}

	if m.repeat <= 0 {
		m.repeat = DefaultRepeatInterval
	}

	if m.refresh <= 0 {
		m.refresh = DefaultDisplayInterval
	}

	if m.rotate <= 0 {
		m.rotate = DefaultRotateEvery
	}

	if m.now == nil {
		m.now = time.Now
	}

	return m
}

// Run ticks until ctx is done. Both tickers are stopped before it returns.
func (m *Monitor) Run(ctx context.Context) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "monitor")

	checkTicker := time.NewTicker(m.check)
	defer checkTicker.Stop()

	// A nil channel never fires, which disables refreshes without a display.
	var refreshC <-chan time.Time

	if m.capacity > 0 {
		refreshTicker := time.NewTicker(m.refresh)
		defer refreshTicker.Stop()

		refreshC = refreshTicker.C
	}

	logger.InfoKV(ctx, "Watching timers",
		"check_interval", m.check.String(),
		"repeat_interval", m.repeat.String(),
		"display_capacity", m.capacity,
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-checkTicker.C:
			m.Check(ctx, m.now())
		case <-refreshC:
			m.Refresh(ctx, m.now())
		}
	}
}

// Pause suppresses alerts and announcements until the matching Resume.
func (m *Monitor) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.paused++
}

// Resume undoes one Pause.
func (m *Monitor) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.paused > 0 {
		m.paused--
	}
}

// Paused reports whether alerts are suppressed.
func (m *Monitor) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.paused > 0
}

// Check announces newly expired timers and repeats alerts for ringing ones.
func (m *Monitor) Check(ctx context.Context, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Nothing is said or played while the user is being asked something.
	if m.paused > 0 {
		return
	}

	timers := m.source.All()
	seen := make(map[string]struct{}, len(timers))

	for _, t := range timers {
		seen[t.ID] = struct{}{}

		if !t.Expired(now) {
			continue
		}

		if !t.Announced {
			alerted, err := m.announce(ctx, t, timers)
			if err != nil {
				logger.ErrorKV(ctx, "Expiry announcement failed, will retry",
					"timer_id", t.ID,
					"error", err,
				)

				continue
			}

			m.source.MarkAnnounced(t.ID)

			// A sound that failed is replayed on the next tick.
			if alerted {
				m.lastAlert[t.ID] = now
			}

			continue
		}

		if m.muted || t.Muted {
			continue
		}

		if now.Sub(m.lastAlert[t.ID]) < m.repeat {
			continue
		}

		if err := m.notifier.PlaySound(ctx, t.ID); err != nil {
			logger.WarnKV(ctx, "Repeat alert failed, will retry", "timer_id", t.ID, "error", err)

			continue
		}

		m.lastAlert[t.ID] = now
	}

	// Forget timers that were removed.
	for id := range m.lastAlert {
		if _, ok := seen[id]; !ok {
			delete(m.lastAlert, id)
		}
	}
}

// announce plays the alert, speaks the expiry and emits the bus event. Only a
// failure to speak counts as a failed announcement; alerted is false when the
// sound should have played but did not.
func (m *Monitor) announce(ctx context.Context, t *timer.Record, timers []*timer.Record) (alerted bool, err error) {
	alerted = true

	if !m.muted && !t.Muted {
		if err = m.notifier.PlaySound(ctx, t.ID); err != nil {
			logger.WarnKV(ctx, "Alert sound failed, will retry", "timer_id", t.ID, "error", err)

			alerted = false
		}
	}

	if err = m.notifier.Speak(ctx, dialog.Expired(t, timers), false); err != nil {
		return false, err
	}

	if emitErr := m.notifier.Emit(ctx, notify.EventExpired, map[string]any{
		"id":       t.ID,
		"name":     t.Name,
		"duration": t.Duration.Seconds(),
	}); emitErr != nil {
		logger.WarnKV(ctx, "Expiry event was not published", "timer_id", t.ID, "error", emitErr)
	}

	logger.InfoKV(ctx, "Timer expired", "timer_id", t.ID, "name", t.Name)

	return alerted, nil
}

// Refresh sends the visible timers to the display. When the last timer is
// gone a single empty frame clears the display.
func (m *Monitor) Refresh(ctx context.Context, now time.Time) {
	if m.capacity <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	timers := m.source.All()

	if len(timers) == 0 {
		m.offset, m.pageRefreshes = 0, 0

		if m.cleared {
			return
		}

		m.cleared = true
		m.show(ctx, display.Frame{})

		return
	}

	m.cleared = false

	m.show(ctx, display.Frame{
		Entries: m.visible(timers, now),
		Total:   len(timers),
	})
}

// visible returns the page of timers to show, advancing the rotation.
func (m *Monitor) visible(timers []*timer.Record, now time.Time) []display.Entry {
	count := len(timers)
	if count <= m.capacity {
		m.offset, m.pageRefreshes = 0, 0

		return entries(timers, now)
	}

	if m.offset >= count {
		m.offset = 0
	}

	page := make([]*timer.Record, 0, m.capacity)
	for i := range m.capacity {
		page = append(page, timers[(m.offset+i)%count])
	}

	m.pageRefreshes++
	if m.pageRefreshes >= m.rotate {
		m.pageRefreshes = 0
		m.offset = (m.offset + m.capacity) % count
	}

	return entries(page, now)
}

func (m *Monitor) show(ctx context.Context, frame display.Frame) {
	if err := m.notifier.Display(ctx, frame); err != nil {
		logger.WarnKV(ctx, "Display refresh failed", "error", err)
	}
}

func entries(timers []*timer.Record, now time.Time) []display.Entry {
	out := make([]display.Entry, 0, len(timers))

	for _, t := range timers {
		e := display.Entry{
			ID:       t.ID,
			Name:     t.Name,
			Expired:  t.Expired(now),
			Progress: 1,
		}

		if e.Expired {
			e.Clock = dialog.FormatClock(t.Elapsed(now))
		} else {
			e.Clock = dialog.FormatClock(t.Remaining(now))
			e.Progress = 1 - float64(t.Remaining(now))/float64(t.Duration)
		}

		out = append(out, e)
	}

	return out
}
