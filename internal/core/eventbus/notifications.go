package eventbus

import (
	"fmt"

	"github.com/colonyops/portal/internal/core/notify"
)

// Notifier accepts user-facing notifications.
type Notifier interface {
	AddNotification(n notify.Notification) int
}

// NotificationRouter maps domain events to user-facing notifications.
type NotificationRouter struct {
	bus      *EventBus
	notifier Notifier
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus, notifier Notifier) *NotificationRouter {
	return &NotificationRouter{bus: bus, notifier: notifier}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil || r.notifier == nil {
		return
	}

	r.bus.SubscribePermissionsFailed(func(p PermissionsFailedPayload) {
		r.notifyf(notify.LevelError, "Permissions unavailable", "could not load permissions for %s: %v", p.UserID, p.Err)
	})

	r.bus.SubscribeSessionEnded(func(p SessionEndedPayload) {
		if p.Err == nil {
			return
		}
		r.notifyf(notify.LevelWarning, "Logged out locally", "the gateway did not confirm the logout: %v", p.Err)
	})
}

func (r *NotificationRouter) notifyf(level notify.Level, title, format string, args ...any) {
	r.notifier.AddNotification(notify.Notification{
		Title:     title,
		Text:      fmt.Sprintf(format, args...),
		ClassName: string(level),
		Level:     level,
	})
}
