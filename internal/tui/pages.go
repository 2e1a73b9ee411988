package tui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/portal/internal/core/config"
	"github.com/colonyops/portal/internal/core/permission"
	"github.com/colonyops/portal/internal/core/styles"
	"github.com/colonyops/portal/internal/tui/views/shell"
)

type page int

const (
	pageHome page = iota
	pageLogin
	pageConnections
	pageSettings
)

// pageFor picks the view for a router path. Body classes only style the
// frame; configs may rename them freely.
func pageFor(path string) page {
	under := func(base string) bool {
		return path == base || strings.HasPrefix(path, base+"/")
	}
	switch {
	case path == shell.LoginPath:
		return pageLogin
	case under(connectionsPath):
		return pageConnections
	case under(settingsPath):
		return pageSettings
	default:
		return pageHome
	}
}

// renderHeader renders the top bar: application name, page title and the
// signed in user.
func renderHeader(st shell.State, width int) string {
	left := styles.PageTitleStyle.Render("portal")
	if st.Page.Title != "" {
		left += styles.DividerStyle.Render(" │ ") + styles.CommandStyle.Render(st.Page.Title)
	}

	var right string
	if st.CurrentUserID != "" {
		right = styles.UserBadgeStyle.Render(styles.IconUser + " " + st.CurrentUserID)
		if st.CurrentUserIsAdmin {
			right += " " + styles.AdminBadgeStyle.Render("admin")
		}
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.HeaderStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderHome(st shell.State) string {
	lines := []string{
		styles.FormTitleStyle.Render("Welcome, " + st.CurrentUserID),
		"",
	}

	switch {
	case st.PermissionsErr != nil:
		lines = append(lines,
			styles.ErrorTextStyle.Render(styles.IconError+" permissions unavailable"),
			styles.MutedStyle.Render(st.PermissionsErr.Error()),
			styles.MutedStyle.Render("press F5 to retry"),
		)
	case st.CurrentUserPermissions == nil:
		lines = append(lines, styles.MutedStyle.Render("loading permissions..."))
	default:
		lines = append(lines,
			flagLine("administrator", st.CurrentUserIsAdmin),
			flagLine("can update", st.CurrentUserHasUpdate),
			"",
			styles.MutedStyle.Render(fmt.Sprintf("%d grants", st.CurrentUserPermissions.Len())),
		)
		for _, g := range systemGrants(st.CurrentUserPermissions) {
			lines = append(lines, "  "+formatGrant(g))
		}
	}

	return strings.Join(lines, "\n")
}

func renderConnections(st shell.State) string {
	lines := []string{styles.FormTitleStyle.Render("Connections"), ""}

	grants := objectGrants(st.CurrentUserPermissions)
	if len(grants) == 0 {
		lines = append(lines, styles.MutedStyle.Render("no connections available"))
		return strings.Join(lines, "\n")
	}

	for _, g := range grants {
		lines = append(lines, "  "+formatGrant(g))
	}
	return strings.Join(lines, "\n")
}

func renderSettings(st shell.State, cfg *config.Config) string {
	lines := []string{styles.FormTitleStyle.Render("Settings"), ""}

	if !st.CurrentUserHasUpdate {
		lines = append(lines, styles.MutedStyle.Render(styles.IconLock+" read only: you cannot change settings"), "")
	}

	lines = append(lines,
		settingLine("gateway", cfg.Gateway.URL),
		settingLine("timeout", cfg.Gateway.Timeout.String()),
		settingLine("theme", cfg.TUI.Theme),
		settingLine("markdown", fmt.Sprintf("%t", cfg.TUI.MarkdownEnabled())),
		settingLine("data dir", cfg.DataDir),
		"",
		styles.MutedStyle.Render("routes"),
	)
	for _, r := range cfg.Routes {
		lines = append(lines, "  "+settingLine(r.Path, strings.TrimSpace(r.Title+" "+bracket(r.BodyClass))))
	}

	return strings.Join(lines, "\n")
}

func flagLine(label string, v bool) string {
	mark := styles.MutedStyle.Render("no")
	if v {
		mark = styles.PageTitleStyle.Render("yes")
	}
	return fmt.Sprintf("%-14s %s", label, mark)
}

func settingLine(label, value string) string {
	return fmt.Sprintf("%-10s %s", styles.MutedStyle.Render(label), value)
}

func bracket(s string) string {
	if s == "" {
		return ""
	}
	return "[" + s + "]"
}

func formatGrant(g permission.Grant) string {
	if g.ObjectID == "" {
		return fmt.Sprintf("%s %s", g.ObjectType, g.Action)
	}
	return fmt.Sprintf("%s %s %s", g.ObjectType, g.ObjectID, g.Action)
}

func systemGrants(set *permission.Set) []permission.Grant {
	if set == nil {
		return nil
	}
	var out []permission.Grant
	for _, g := range set.Grants {
		if g.ObjectType == permission.TypeSystem || g.ObjectID == "" {
			out = append(out, g)
		}
	}
	return out
}

func objectGrants(set *permission.Set) []permission.Grant {
	if set == nil {
		return nil
	}
	var out []permission.Grant
	for _, g := range set.Grants {
		if g.ObjectType == permission.TypeConnection || g.ObjectType == permission.TypeConnectionGroup {
			out = append(out, g)
		}
	}
	return out
}
