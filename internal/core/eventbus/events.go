// Package eventbus provides the typed publish/subscribe bus the shell uses
// in place of scope broadcasts. Dispatch is synchronous: Publish returns
// after every subscriber has run, so cancelable events can report whether
// any subscriber suppressed them.
package eventbus

import (
	"github.com/colonyops/portal/internal/core/keyboard"
	"github.com/colonyops/portal/internal/core/notify"
	"github.com/colonyops/portal/internal/core/route"
)

// Event names a bus event.
type Event string

// Keep list sorted A-Z
const (
	EventKeyDown             Event = "key.down"
	EventKeyUp               Event = "key.up"
	EventNotificationAdded   Event = "notification.added"
	EventNotificationRemoved Event = "notification.removed"
	EventPermissionsFailed   Event = "permissions.failed"
	EventPermissionsLoaded   Event = "permissions.loaded"
	EventRouteChanged        Event = "route.changed"
	EventSessionEnded        Event = "session.ended"
	EventStatusChanged       Event = "status.changed"
)

// KeyDownPayload is emitted when a key is pressed. Subscribers return true
// to suppress the key's default action.
type KeyDownPayload struct {
	Key keyboard.Keysym
}

// KeyUpPayload is emitted when a key is released.
type KeyUpPayload struct {
	Key keyboard.Keysym
}

// RouteChangedPayload is emitted after navigation completes.
type RouteChangedPayload struct {
	Path     string
	Current  *route.Route
	Previous *route.Route
}

// PermissionsLoadedPayload is emitted after the current user's permissions
// are fetched and evaluated.
type PermissionsLoadedPayload struct {
	UserID    string
	IsAdmin   bool
	HasUpdate bool
}

// PermissionsFailedPayload is emitted when the permission fetch fails.
type PermissionsFailedPayload struct {
	UserID string
	Err    error
}

// NotificationAddedPayload is emitted when a notification joins the list.
type NotificationAddedPayload struct {
	ID           int
	Notification notify.Notification
}

// NotificationRemovedPayload is emitted when a notification leaves the list.
type NotificationRemovedPayload struct {
	ID int
}

// StatusChangedPayload is emitted when the status slot changes. Status is
// nil when the slot was cleared.
type StatusChangedPayload struct {
	Status *notify.Notification
}

// SessionEndedPayload is emitted once a logout attempt completes. Err is the
// gateway error, if any; the session ends locally either way.
type SessionEndedPayload struct {
	UserID string
	Err    error
}
