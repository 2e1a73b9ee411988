package tui

import (
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/portal/internal/core/notify"
	"github.com/colonyops/portal/internal/core/styles"
)

func TestNotificationsView_View_empty(t *testing.T) {
	v := NewNotificationsView(newMarkdownRenderer(false))
	assert.Empty(t, v.View(nil))
}

func TestNotificationsView_View_renders_each_level(t *testing.T) {
	tests := []struct {
		level notify.Level
		icon  string
	}{
		{notify.LevelError, styles.IconError},
		{notify.LevelWarning, styles.IconWarning},
		{notify.LevelInfo, styles.IconInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			v := NewNotificationsView(newMarkdownRenderer(false))

			out := v.View([]notify.Entry{{ID: 1, Notification: notify.Notification{
				Title: "heads up",
				Text:  "test msg",
				Level: tt.level,
			}}})

			require.NotEmpty(t, out)
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, ansi.Strip(out), "heads up")
			assert.Contains(t, ansi.Strip(out), "test msg")
		})
	}
}

func TestNotificationsView_View_countdown_progress_actions(t *testing.T) {
	v := NewNotificationsView(newMarkdownRenderer(false))

	out := ansi.Strip(v.View([]notify.Entry{{ID: 1, Notification: notify.Notification{
		Title:     "Uploading",
		Countdown: &notify.Countdown{Text: "retry in", Remaining: 3 * time.Second},
		Progress:  &notify.Progress{Text: "report.pdf", Value: 512, Unit: "KiB", Ratio: notify.Ratio(0.5)},
		Actions:   []notify.Action{{Name: "Cancel"}},
	}}}))

	assert.Contains(t, out, "retry in 3s")
	assert.Contains(t, out, "report.pdf: 512 KiB")
	assert.Contains(t, out, "alt+1 Cancel")
}

func TestNotificationsView_View_caps_visible(t *testing.T) {
	v := NewNotificationsView(newMarkdownRenderer(false))

	entries := make([]notify.Entry, 0, maxVisibleNotifications+2)
	for i := range maxVisibleNotifications + 2 {
		entries = append(entries, notify.Entry{ID: i + 1, Notification: notify.Notification{Title: fmt.Sprintf("n%d", i+1)}})
	}

	out := ansi.Strip(v.View(entries))
	assert.Contains(t, out, "+2 more")
	assert.NotContains(t, out, "n1 ")
	assert.Contains(t, out, fmt.Sprintf("n%d", maxVisibleNotifications+2))
}

func TestNotificationsView_Overlay_without_entries_returns_background(t *testing.T) {
	v := NewNotificationsView(newMarkdownRenderer(false))
	assert.Equal(t, "background", v.Overlay("background", nil, 80, 24))
}

func TestStatusModal_View(t *testing.T) {
	m := NewStatusModal(newMarkdownRenderer(false))

	assert.Empty(t, m.View(nil))
	assert.Empty(t, m.View(&notify.Notification{}))

	busy := ansi.Strip(m.View(&notify.Notification{Title: "Signing in"}))
	assert.Contains(t, busy, "Signing in")
	assert.NotContains(t, busy, "1-9 choose")

	choice := ansi.Strip(m.View(&notify.Notification{
		Title:   "Session expired",
		Actions: []notify.Action{{Name: "Sign in"}, {Name: "Quit"}},
	}))
	assert.Contains(t, choice, "1 Sign in")
	assert.Contains(t, choice, "2 Quit")
	assert.Contains(t, choice, "1-9 choose")
}

func TestFormatProgress(t *testing.T) {
	assert.Equal(t, "50%", formatProgress(&notify.Progress{Ratio: notify.Ratio(0.5)}))
	assert.Equal(t, "copying", formatProgress(&notify.Progress{Text: "copying"}))
	assert.Equal(t, "copying: 3 files", formatProgress(&notify.Progress{Text: "copying", Value: 3, Unit: "files"}))
	assert.Empty(t, formatProgress(&notify.Progress{}))
}

func TestMarkdownRenderer_disabled_passthrough(t *testing.T) {
	var nilRenderer *markdownRenderer
	assert.Equal(t, "**bold**", nilRenderer.Render("**bold**", 40))
	assert.Equal(t, "**bold**", newMarkdownRenderer(false).Render("**bold**", 40))
}

func TestMarkdownRenderer_renders(t *testing.T) {
	out := ansi.Strip(newMarkdownRenderer(true).Render("Signed in as **alice**", 40))
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "**")
}
