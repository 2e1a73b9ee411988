package tui

import (
	"strings"

	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/portal/internal/core/notify"
	"github.com/colonyops/portal/internal/core/styles"
)

const statusModalWidth = 60

// StatusModal renders the shell's status slot as a centered modal. While a
// status is shown it owns the keyboard: digits run its actions and every
// other key is swallowed.
type StatusModal struct {
	md       *markdownRenderer
	bar      progress.Model
	spinner  spinner.Model
	spinning bool
}

func NewStatusModal(md *markdownRenderer) *StatusModal {
	return &StatusModal{
		md:  md,
		bar: newProgressBar(statusModalWidth - 6),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.ColorPrimary)),
		),
	}
}

// StartSpinner returns the command that starts the busy spinner, or nil
// when it is already running.
func (m *StatusModal) StartSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// UpdateSpinner advances the spinner. The spinner stops when active is
// false.
func (m *StatusModal) UpdateSpinner(msg spinner.TickMsg, active bool) tea.Cmd {
	if !active {
		m.spinning = false
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// View renders status as modal content. A status without actions is a busy
// indicator and gets a spinner next to its title.
func (m *StatusModal) View(status *notify.Notification) string {
	if status.IsZero() {
		return ""
	}

	inner := statusModalWidth - 6
	lines := renderNotificationBody(*status, inner, m.md, m.bar)

	if len(status.Actions) > 0 {
		lines = append(lines, renderActions(status.Actions, "", true))
		lines = append(lines, styles.ModalHelpStyle.Render("1-9 choose"))
	} else {
		lines = append([]string{m.spinner.View()}, lines...)
	}

	style := styles.ModalStyle.
		BorderForeground(styles.LevelColor(string(status.Level))).
		Width(statusModalWidth)

	return style.Render(strings.Join(lines, "\n"))
}

// Overlay composites the status modal centered over background.
func (m *StatusModal) Overlay(background string, status *notify.Notification, width, height int) string {
	content := m.View(status)
	if content == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(content)

	x := max((width-lipgloss.Width(content))/2, 0)
	y := max((height-lipgloss.Height(content))/2, 0)
	modalLayer.X(x).Y(y).Z(3)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}

// statusActionIndex maps a digit key to a zero based action index.
func statusActionIndex(r rune, actions int) (int, bool) {
	if r < '1' || r > '9' {
		return 0, false
	}
	idx := int(r - '1')
	if idx >= actions {
		return 0, false
	}
	return idx, true
}
