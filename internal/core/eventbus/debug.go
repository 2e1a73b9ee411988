package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger registers bus hooks that log event activity. Key
// events are logged at trace level since they fire on every keystroke.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, _ any) {
		switch event { //nolint:exhaustive // only noisy events are demoted
		case EventKeyDown, EventKeyUp:
			logger.Trace().Str("event", string(event)).Msg("event fired")
		default:
			logger.Debug().Str("event", string(event)).Msg("event fired")
		}
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}
