// Package keyboard implements the key capture driver. It tracks which keys
// are held and reports key-down and key-up events to the registered
// handlers.
package keyboard

import "slices"

// DownHandler receives a key-down event and returns whether the default
// action for the key should run.
type DownHandler func(Keysym) bool

// UpHandler receives a key-up event.
type UpHandler func(Keysym)

// Keyboard tracks pressed keys. It is not safe for concurrent use; all calls
// happen on the UI loop.
type Keyboard struct {
	onDown DownHandler
	onUp   UpHandler

	pressed []Keysym // press order
	// releaseEvents is true when the terminal reports key releases. When
	// false, callers use Tap so no key stays held.
	releaseEvents bool
}

// New creates a keyboard with no handlers.
func New() *Keyboard {
	return &Keyboard{}
}

// SetHandlers registers the key-down and key-up handlers, replacing any
// previous ones. Either may be nil.
func (k *Keyboard) SetHandlers(down DownHandler, up UpHandler) {
	k.onDown = down
	k.onUp = up
}

// SetReleaseEvents records whether the terminal reports key releases.
func (k *Keyboard) SetReleaseEvents(v bool) {
	k.releaseEvents = v
}

// ReleaseEvents returns whether the terminal reports key releases.
func (k *Keyboard) ReleaseEvents() bool {
	return k.releaseEvents
}

// Press marks key as held and reports a key-down. Pressing a held key is a
// repeat: it is reported again but tracked once. The result tells the caller
// whether to run the key's default action; it is true when no handler is set.
func (k *Keyboard) Press(key Keysym) bool {
	if !slices.Contains(k.pressed, key) {
		k.pressed = append(k.pressed, key)
	}

	if k.onDown == nil {
		return true
	}
	return k.onDown(key)
}

// Release reports a key-up for key if it is held. Releasing a key that is
// not held does nothing.
func (k *Keyboard) Release(key Keysym) {
	idx := slices.Index(k.pressed, key)
	if idx < 0 {
		return
	}
	k.pressed = slices.Delete(k.pressed, idx, idx+1)

	if k.onUp != nil {
		k.onUp(key)
	}
}

// Tap presses and immediately releases key.
func (k *Keyboard) Tap(key Keysym) bool {
	allow := k.Press(key)
	k.Release(key)
	return allow
}

// Reset releases every held key, most recently pressed first, reporting a
// key-up for each.
func (k *Keyboard) Reset() {
	for len(k.pressed) > 0 {
		k.Release(k.pressed[len(k.pressed)-1])
	}
}

// Pressed returns the held keys in press order.
func (k *Keyboard) Pressed() []Keysym {
	return slices.Clone(k.pressed)
}

// IsPressed reports whether key is held.
func (k *Keyboard) IsPressed(key Keysym) bool {
	return slices.Contains(k.pressed, key)
}
