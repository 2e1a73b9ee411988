package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/progress"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/portal/internal/core/notify"
	"github.com/colonyops/portal/internal/core/styles"
)

const (
	notificationWidth       = 50
	maxVisibleNotifications = 5
	maxNotificationActions  = 9
)

// NotificationsView renders the notification list and composites it as an
// overlay in the lower-right corner.
type NotificationsView struct {
	md  *markdownRenderer
	bar progress.Model
}

func NewNotificationsView(md *markdownRenderer) *NotificationsView {
	return &NotificationsView{
		md:  md,
		bar: newProgressBar(notificationWidth - 4),
	}
}

func newProgressBar(width int) progress.Model {
	return progress.New(
		progress.WithWidth(width),
		progress.WithoutPercentage(),
		progress.WithColors(styles.ColorPrimary, styles.ColorSecondary),
	)
}

// View renders the newest notifications stacked vertically, oldest at top.
func (v *NotificationsView) View(entries []notify.Entry) string {
	if len(entries) == 0 {
		return ""
	}

	hidden := 0
	if len(entries) > maxVisibleNotifications {
		hidden = len(entries) - maxVisibleNotifications
		entries = entries[hidden:]
	}

	rendered := make([]string, 0, len(entries)+1)
	if hidden > 0 {
		rendered = append(rendered, styles.MutedStyle.Render(fmt.Sprintf("+%d more", hidden)))
	}
	for i, e := range entries {
		newest := i == len(entries)-1
		rendered = append(rendered, v.renderCard(e.Notification, newest))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func (v *NotificationsView) renderCard(n notify.Notification, newest bool) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.LevelColor(string(n.Level))).
		Padding(0, 1).
		Width(notificationWidth)

	inner := notificationWidth - 4
	lines := renderNotificationBody(n, inner, v.md, v.bar)

	if len(n.Actions) > 0 {
		lines = append(lines, renderActions(n.Actions, "alt+", newest))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// Overlay composites the notification stack over background in the
// lower-right corner.
func (v *NotificationsView) Overlay(background string, entries []notify.Entry, width, height int) string {
	content := v.View(entries)
	if content == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	stackLayer := lipgloss.NewLayer(content)

	stackW := lipgloss.Width(content)
	stackH := lipgloss.Height(content)

	rightX := max(width-stackW-1, 0)
	bottomY := max(height-stackH-1, 0)

	stackLayer.X(rightX).Y(bottomY).Z(2)

	return lipgloss.NewCompositor(bgLayer, stackLayer).Render()
}

// renderNotificationBody renders the parts shared by list notifications and
// the status: title, text, countdown and progress.
func renderNotificationBody(n notify.Notification, width int, md *markdownRenderer, bar progress.Model) []string {
	var lines []string

	if n.Title != "" {
		lines = append(lines, styles.ModalTitleStyle.Render(levelIcon(n.Level)+" "+n.Title))
	}

	if n.Text != "" {
		lines = append(lines, md.Render(n.Text, width))
	}

	if c := n.Countdown; c != nil {
		lines = append(lines, styles.MutedStyle.Render(formatCountdown(c)))
	}

	if p := n.Progress; p != nil {
		if label := formatProgress(p); label != "" {
			lines = append(lines, styles.MutedStyle.Render(label))
		}
		if p.Ratio != nil {
			bar.SetWidth(width)
			lines = append(lines, bar.ViewAs(*p.Ratio))
		}
	}

	return lines
}

// renderActions renders numbered action buttons. Only the first nine actions
// get a key; the rest are not shown.
func renderActions(actions []notify.Action, prefix string, active bool) string {
	buttonStyle := styles.ModalButtonStyle
	if active {
		buttonStyle = styles.ModalButtonSelectedStyle
	}

	buttons := make([]string, 0, min(len(actions), maxNotificationActions))
	for i, a := range actions {
		if i >= maxNotificationActions {
			break
		}
		buttons = append(buttons, buttonStyle.Render(fmt.Sprintf("%s%d %s", prefix, i+1, a.Name)))
	}

	return lipgloss.NewStyle().MarginTop(1).Render(lipgloss.JoinHorizontal(lipgloss.Center, joinWithGap(buttons, " ")...))
}

func joinWithGap(items []string, gap string) []string {
	if len(items) < 2 {
		return items
	}
	out := make([]string, 0, len(items)*2-1)
	for i, it := range items {
		if i > 0 {
			out = append(out, gap)
		}
		out = append(out, it)
	}
	return out
}

func levelIcon(level notify.Level) string {
	switch level {
	case notify.LevelError:
		return styles.IconError
	case notify.LevelWarning:
		return styles.IconWarning
	default:
		return styles.IconInfo
	}
}

func formatCountdown(c *notify.Countdown) string {
	secs := int(c.Remaining.Round(time.Second) / time.Second)
	if c.Text == "" {
		return fmt.Sprintf("%s %ds", styles.IconTimer, secs)
	}
	return fmt.Sprintf("%s %s %ds", styles.IconTimer, c.Text, secs)
}

func formatProgress(p *notify.Progress) string {
	var parts []string
	if p.Text != "" {
		parts = append(parts, p.Text)
	}
	if p.Unit != "" || p.Value != 0 {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%g %s", p.Value, p.Unit)))
	}
	if p.Ratio != nil && len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%.0f%%", *p.Ratio*100))
	}
	return strings.Join(parts, ": ")
}
