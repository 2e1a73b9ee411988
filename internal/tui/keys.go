package tui

import (
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/portal/internal/core/keyboard"
)

var specialKeys = map[rune]keyboard.Keysym{
	tea.KeyBackspace:  keyboard.KeyBackSpace,
	tea.KeyTab:        keyboard.KeyTab,
	tea.KeyEnter:      keyboard.KeyReturn,
	tea.KeyEscape:     keyboard.KeyEscape,
	tea.KeySpace:      keyboard.KeySpace,
	tea.KeyPause:      keyboard.KeyPause,
	tea.KeyHome:       keyboard.KeyHome,
	tea.KeyLeft:       keyboard.KeyLeft,
	tea.KeyUp:         keyboard.KeyUp,
	tea.KeyRight:      keyboard.KeyRight,
	tea.KeyDown:       keyboard.KeyDown,
	tea.KeyPgUp:       keyboard.KeyPageUp,
	tea.KeyPgDown:     keyboard.KeyPageDown,
	tea.KeyEnd:        keyboard.KeyEnd,
	tea.KeyInsert:     keyboard.KeyInsert,
	tea.KeyMenu:       keyboard.KeyMenu,
	tea.KeyDelete:     keyboard.KeyDelete,
	tea.KeyCapsLock:   keyboard.KeyCapsLock,
	tea.KeyLeftShift:  keyboard.KeyShiftL,
	tea.KeyRightShift: keyboard.KeyShiftR,
	tea.KeyLeftCtrl:   keyboard.KeyControlL,
	tea.KeyRightCtrl:  keyboard.KeyControlR,
	tea.KeyLeftAlt:    keyboard.KeyAltL,
	tea.KeyRightAlt:   keyboard.KeyAltR,
	tea.KeyLeftMeta:   keyboard.KeyMetaL,
	tea.KeyLeftSuper:  keyboard.KeySuperL,
	tea.KeyRightSuper: keyboard.KeySuperR,

	tea.KeyF1:  keyboard.Function(1),
	tea.KeyF2:  keyboard.Function(2),
	tea.KeyF3:  keyboard.Function(3),
	tea.KeyF4:  keyboard.Function(4),
	tea.KeyF5:  keyboard.Function(5),
	tea.KeyF6:  keyboard.Function(6),
	tea.KeyF7:  keyboard.Function(7),
	tea.KeyF8:  keyboard.Function(8),
	tea.KeyF9:  keyboard.Function(9),
	tea.KeyF10: keyboard.Function(10),
	tea.KeyF11: keyboard.Function(11),
	tea.KeyF12: keyboard.Function(12),
}

// keysymFor translates a terminal key event to the keysym the shell
// broadcasts. Printable keys map through their text so shifted characters
// keep their case. The second result is false for keys with no keysym.
func keysymFor(k tea.Key) (keyboard.Keysym, bool) {
	if sym, ok := specialKeys[k.Code]; ok {
		return sym, true
	}

	if k.Text != "" {
		r, _ := utf8.DecodeRuneInString(k.Text)
		if r != utf8.RuneError {
			return keyboard.FromRune(r), true
		}
	}

	if k.Code == tea.KeyExtended || k.Code <= 0 {
		return 0, false
	}

	return keyboard.FromRune(k.Code), true
}
