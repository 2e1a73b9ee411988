package tui

import "github.com/colonyops/portal/internal/core/logging"

// runCallback invokes a notification callback, recovering panics so a bad
// action cannot take down the UI loop.
func runCallback(kind string, fn func()) {
	if fn == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			l := logging.Component("tui")
			l.Error().Str("kind", kind).Interface("panic", r).Msg("notification callback panicked")
		}
	}()

	fn()
}
