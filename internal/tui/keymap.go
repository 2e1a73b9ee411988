package tui

import (
	"fmt"

	"charm.land/bubbles/v2/key"

	"github.com/colonyops/portal/internal/core/keyboard"
)

// KeyMap holds the shell's global bindings. The function key bindings are
// derived from shellKeys and only feed the help view; the shell acts on
// them through the event bus. Quit and NotificationAction match the raw
// terminal key.
type KeyMap struct {
	Help        key.Binding
	Home        key.Binding
	Connections key.Binding
	Settings    key.Binding
	Reload      key.Binding
	Logout      key.Binding
	Dismiss     key.Binding
	Quit        key.Binding

	NotificationAction key.Binding
	StatusAction       key.Binding
}

// shellKeys are the function keys the shell claims on every page.
var shellKeys = struct {
	Help, Home, Connections, Settings, Reload, Logout keyboard.Keysym
}{
	Help:        keyboard.Function(1),
	Home:        keyboard.Function(2),
	Connections: keyboard.Function(3),
	Settings:    keyboard.Function(4),
	Reload:      keyboard.Function(5),
	Logout:      keyboard.Function(9),
}

// functionBinding describes a shellKeys function key for the help view, so
// the help text always names the key the shell acts on.
func functionBinding(sym keyboard.Keysym, desc string) key.Binding {
	n := int(sym-keyboard.KeyF1) + 1
	return key.NewBinding(
		key.WithKeys(fmt.Sprintf("f%d", n)),
		key.WithHelp(fmt.Sprintf("F%d", n), desc),
	)
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help:        functionBinding(shellKeys.Help, "help"),
		Home:        functionBinding(shellKeys.Home, "home"),
		Connections: functionBinding(shellKeys.Connections, "connections"),
		Settings:    functionBinding(shellKeys.Settings, "settings"),
		Reload:      functionBinding(shellKeys.Reload, "reload permissions"),
		Logout:      functionBinding(shellKeys.Logout, "logout"),
		Dismiss:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		NotificationAction: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
			key.WithHelp("alt+1-9", "notification action"),
		),
		StatusAction: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "status action"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Home, k.Connections, k.Settings, k.Logout, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Home, k.Connections, k.Settings},
		{k.Reload, k.Logout, k.Quit},
		{k.Dismiss, k.NotificationAction, k.StatusAction, k.Help},
	}
}
