package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/portal/internal/core/styles"
)

// markdownRenderer renders notification text. The glamour renderer is
// rebuilt only when the wrap width changes.
type markdownRenderer struct {
	enabled  bool
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer(enabled bool) *markdownRenderer {
	return &markdownRenderer{enabled: enabled}
}

// Render returns text rendered as markdown wrapped at width, or text as-is
// when markdown is disabled or rendering fails.
func (m *markdownRenderer) Render(text string, width int) string {
	if m == nil || !m.enabled || strings.TrimSpace(text) == "" || width <= 0 {
		return text
	}

	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStyles(styles.GlamourStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
			return text
		}
		m.renderer = r
		m.width = width
	}

	rendered, err := m.renderer.Render(text)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return text
	}

	return strings.TrimSpace(rendered)
}
