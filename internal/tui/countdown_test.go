package tui

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/portal/internal/core/notify"
	"github.com/colonyops/portal/internal/tui/views/shell"
)

// stubTarget is a countdownTarget backed by a plain state value.
type stubTarget struct {
	state   shell.State
	removed []int
}

func (s *stubTarget) State() shell.State { return s.state }

func (s *stubTarget) RemoveNotification(id int) {
	s.removed = append(s.removed, id)
	s.state.Notifications = slices.DeleteFunc(s.state.Notifications, func(e notify.Entry) bool { return e.ID == id })
}

func TestCountdownTicker_defaults_interval(t *testing.T) {
	assert.Equal(t, defaultCountdownTick, NewCountdownTicker(0).Interval())
	assert.Equal(t, 250*time.Millisecond, NewCountdownTicker(250*time.Millisecond).Interval())
}

func TestCountdownTicker_Tick_expires_list_notification(t *testing.T) {
	fired := 0
	cd := &notify.Countdown{Remaining: 2 * time.Second, Callback: func() { fired++ }}

	target := &stubTarget{state: shell.State{Notifications: []notify.Entry{
		{ID: 1, Notification: notify.Notification{Title: "plain"}},
		{ID: 2, Notification: notify.Notification{Title: "timed", Countdown: cd}},
	}}}

	ticker := NewCountdownTicker(time.Second)

	ticker.Tick(time.Second, target)
	assert.Equal(t, time.Second, cd.Remaining)
	assert.Equal(t, 0, fired)
	assert.Empty(t, target.removed)
	assert.True(t, ticker.Pending(target.State()))

	ticker.Tick(time.Second, target)
	assert.Equal(t, time.Duration(0), cd.Remaining)
	assert.Equal(t, 1, fired)
	assert.Equal(t, []int{2}, target.removed)
	require.Len(t, target.state.Notifications, 1)
	assert.False(t, ticker.Pending(target.State()))
}

func TestCountdownTicker_Tick_status_fires_once_and_stays(t *testing.T) {
	fired := 0
	cd := &notify.Countdown{Remaining: time.Second, Callback: func() { fired++ }}
	status := &notify.Notification{Title: "Reconnecting", Countdown: cd}

	target := &stubTarget{state: shell.State{Status: status}}
	ticker := NewCountdownTicker(time.Second)

	ticker.Tick(time.Second, target)
	ticker.Tick(time.Second, target)
	ticker.Tick(time.Second, target)

	assert.Equal(t, 1, fired)
	assert.Equal(t, time.Duration(0), cd.Remaining)
	assert.Empty(t, target.removed)
	assert.False(t, ticker.Pending(target.State()))
}

func TestCountdownTicker_Tick_nil_callback(t *testing.T) {
	cd := &notify.Countdown{Remaining: time.Millisecond}
	target := &stubTarget{state: shell.State{Notifications: []notify.Entry{
		{ID: 7, Notification: notify.Notification{Countdown: cd}},
	}}}

	ticker := NewCountdownTicker(time.Second)
	require.NotPanics(t, func() { ticker.Tick(time.Second, target) })
	assert.Equal(t, []int{7}, target.removed)
}

func TestCountdownTicker_Tick_recovers_callback_panic(t *testing.T) {
	cd := &notify.Countdown{Remaining: time.Second, Callback: func() { panic("boom") }}
	target := &stubTarget{state: shell.State{Notifications: []notify.Entry{
		{ID: 3, Notification: notify.Notification{Countdown: cd}},
	}}}

	ticker := NewCountdownTicker(time.Second)
	require.NotPanics(t, func() { ticker.Tick(time.Second, target) })
	assert.Equal(t, []int{3}, target.removed)
}

func TestCountdownTicker_Pending(t *testing.T) {
	ticker := NewCountdownTicker(time.Second)

	assert.False(t, ticker.Pending(shell.State{}))
	assert.False(t, ticker.Pending(shell.State{Status: &notify.Notification{Title: "busy"}}))
	assert.True(t, ticker.Pending(shell.State{Status: &notify.Notification{
		Countdown: &notify.Countdown{Remaining: time.Second},
	}}))
}

func TestCountdownTicker_Ticking(t *testing.T) {
	ticker := NewCountdownTicker(time.Second)
	assert.False(t, ticker.Ticking())
	ticker.SetTicking(true)
	assert.True(t, ticker.Ticking())
}
