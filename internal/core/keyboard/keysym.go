package keyboard

import "fmt"

// Keysym is an X11 keysym, the key identifier the gateway protocol speaks.
type Keysym uint32

// Keysyms for non-printable keys.
const (
	KeyBackSpace Keysym = 0xFF08
	KeyTab       Keysym = 0xFF09
	KeyReturn    Keysym = 0xFF0D
	KeyPause     Keysym = 0xFF13
	KeyEscape    Keysym = 0xFF1B
	KeyHome      Keysym = 0xFF50
	KeyLeft      Keysym = 0xFF51
	KeyUp        Keysym = 0xFF52
	KeyRight     Keysym = 0xFF53
	KeyDown      Keysym = 0xFF54
	KeyPageUp    Keysym = 0xFF55
	KeyPageDown  Keysym = 0xFF56
	KeyEnd       Keysym = 0xFF57
	KeyInsert    Keysym = 0xFF63
	KeyMenu      Keysym = 0xFF67
	KeyF1        Keysym = 0xFFBE
	KeyShiftL    Keysym = 0xFFE1
	KeyShiftR    Keysym = 0xFFE2
	KeyControlL  Keysym = 0xFFE3
	KeyControlR  Keysym = 0xFFE4
	KeyCapsLock  Keysym = 0xFFE5
	KeyMetaL     Keysym = 0xFFE7
	KeyAltL      Keysym = 0xFFE9
	KeyAltR      Keysym = 0xFFEA
	KeySuperL    Keysym = 0xFFEB
	KeySuperR    Keysym = 0xFFEC
	KeyDelete    Keysym = 0xFFFF
	KeySpace     Keysym = 0x0020
)

// unicodeOffset marks keysyms that encode a Unicode code point directly.
const unicodeOffset = 0x01000000

var names = map[Keysym]string{
	KeyBackSpace: "BackSpace",
	KeyTab:       "Tab",
	KeyReturn:    "Return",
	KeyPause:     "Pause",
	KeyEscape:    "Escape",
	KeyHome:      "Home",
	KeyLeft:      "Left",
	KeyUp:        "Up",
	KeyRight:     "Right",
	KeyDown:      "Down",
	KeyPageUp:    "Page_Up",
	KeyPageDown:  "Page_Down",
	KeyEnd:       "End",
	KeyInsert:    "Insert",
	KeyMenu:      "Menu",
	KeyShiftL:    "Shift_L",
	KeyShiftR:    "Shift_R",
	KeyControlL:  "Control_L",
	KeyControlR:  "Control_R",
	KeyCapsLock:  "Caps_Lock",
	KeyMetaL:     "Meta_L",
	KeyAltL:      "Alt_L",
	KeyAltR:      "Alt_R",
	KeySuperL:    "Super_L",
	KeySuperR:    "Super_R",
	KeyDelete:    "Delete",
	KeySpace:     "space",
}

// FromRune returns the keysym for a printable character. Latin-1 characters
// map to themselves, everything else uses the Unicode keysym range.
func FromRune(r rune) Keysym {
	switch {
	case r >= 0x20 && r <= 0x7E, r >= 0xA0 && r <= 0xFF:
		return Keysym(r)
	default:
		return Keysym(unicodeOffset | uint32(r))
	}
}

// Function returns the keysym for function key Fn (1-35).
func Function(n int) Keysym {
	if n < 1 || n > 35 {
		return 0
	}
	return KeyF1 + Keysym(n-1)
}

// Rune returns the character a keysym encodes, if any.
func (k Keysym) Rune() (rune, bool) {
	switch {
	case k >= 0x20 && k <= 0x7E, k >= 0xA0 && k <= 0xFF:
		return rune(k), true
	case k&unicodeOffset != 0 && k < unicodeOffset+0x110000:
		return rune(k &^ unicodeOffset), true
	default:
		return 0, false
	}
}

func (k Keysym) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	if k >= KeyF1 && k < KeyF1+35 {
		return fmt.Sprintf("F%d", k-KeyF1+1)
	}
	if r, ok := k.Rune(); ok {
		return string(r)
	}
	return fmt.Sprintf("0x%04X", uint32(k))
}
