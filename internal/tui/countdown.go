package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/portal/internal/core/notify"
	"github.com/colonyops/portal/internal/tui/views/shell"
)

const defaultCountdownTick = time.Second

type countdownTickMsg time.Time

func scheduleCountdownTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return countdownTickMsg(t)
	})
}

// countdownTarget is the part of the shell controller the ticker drives.
type countdownTarget interface {
	State() shell.State
	RemoveNotification(id int)
}

// CountdownTicker advances the countdowns attached to notifications and the
// status. A countdown that reaches zero fires its callback once. Expired
// list notifications are removed; the status stays until its owner hides it.
type CountdownTicker struct {
	interval time.Duration
	ticking  bool
	fired    map[*notify.Countdown]struct{}
}

func NewCountdownTicker(interval time.Duration) *CountdownTicker {
	if interval <= 0 {
		interval = defaultCountdownTick
	}
	return &CountdownTicker{
		interval: interval,
		fired:    make(map[*notify.Countdown]struct{}),
	}
}

// Interval is the time between ticks.
func (t *CountdownTicker) Interval() time.Duration {
	return t.interval
}

// Tick decrements every running countdown by d.
func (t *CountdownTicker) Tick(d time.Duration, target countdownTarget) {
	st := target.State()
	live := make(map[*notify.Countdown]struct{})

	var expired []int
	for _, e := range st.Notifications {
		c := e.Notification.Countdown
		if c == nil {
			continue
		}
		live[c] = struct{}{}
		if t.advance(c, d) {
			expired = append(expired, e.ID)
		}
	}

	if st.Status != nil && st.Status.Countdown != nil {
		live[st.Status.Countdown] = struct{}{}
		t.advance(st.Status.Countdown, d)
	}

	for _, id := range expired {
		target.RemoveNotification(id)
	}

	for c := range t.fired {
		if _, ok := live[c]; !ok {
			delete(t.fired, c)
		}
	}
}

// advance reports whether c expired on this tick.
func (t *CountdownTicker) advance(c *notify.Countdown, d time.Duration) bool {
	if _, done := t.fired[c]; done {
		return false
	}

	c.Remaining -= d
	if c.Remaining > 0 {
		return false
	}

	c.Remaining = 0
	t.fired[c] = struct{}{}
	runCallback("countdown", c.Callback)
	return true
}

// Pending reports whether st holds a countdown that has not fired yet.
func (t *CountdownTicker) Pending(st shell.State) bool {
	for _, e := range st.Notifications {
		if c := e.Notification.Countdown; c != nil && !t.hasFired(c) {
			return true
		}
	}
	return st.Status != nil && st.Status.Countdown != nil && !t.hasFired(st.Status.Countdown)
}

func (t *CountdownTicker) hasFired(c *notify.Countdown) bool {
	_, ok := t.fired[c]
	return ok
}

// Ticking returns whether the tick timer is currently running.
func (t *CountdownTicker) Ticking() bool {
	return t.ticking
}

// SetTicking sets the tick timer state.
func (t *CountdownTicker) SetTicking(v bool) {
	t.ticking = v
}
