package tui

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/portal/internal/core/styles"
	"github.com/colonyops/portal/internal/tui/views/shell"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// View renders the page frame, then the notification stack and the status
// modal on top.
func (m *Model) View() tea.View {
	width, height := m.width, m.height
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}

	st := m.ctrl.State()

	header := renderHeader(st, width)
	helpView := m.help.View(m.keys)

	frame := styles.BodyStyle(st.Page.BodyClassName)
	innerW := max(width-frame.GetHorizontalFrameSize(), 0)
	innerH := max(height-lipgloss.Height(header)-lipgloss.Height(helpView)-frame.GetVerticalFrameSize(), 0)

	body := frame.Render(m.pageView(st, innerW, innerH))

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, helpView)

	content = m.notifications.Overlay(content, st.Notifications, width, height)
	content = m.status.Overlay(content, st.Status, width, height)

	v := tea.NewView(content)
	v.AltScreen = true
	v.ReportFocus = true
	v.WindowTitle = windowTitle(st.Page.Title)
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}

// pageView renders the page for the current route into a block of exactly
// width by height cells.
func (m *Model) pageView(st shell.State, width, height int) string {
	var content string
	switch pageFor(m.router.CurrentPath()) {
	case pageLogin:
		content = m.login.View()
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	case pageConnections:
		content = renderConnections(st)
	case pageSettings:
		content = renderSettings(st, m.cfg)
	default:
		content = renderHome(st)
	}
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, content)
}

func windowTitle(page string) string {
	if page == "" {
		return "portal"
	}
	return page + " · portal"
}
