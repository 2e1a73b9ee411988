package eventbus

import (
	"sync"

	"github.com/colonyops/portal/internal/core/route"
)

// handler is the untyped form every subscriber is stored as. The return
// value only matters for cancelable events.
type handler func(payload any) (suppress bool)

// EventBus dispatches events synchronously to registered subscribers.
// Subscriber panics are recovered and reported through OnPanic hooks.
type EventBus struct {
	mu   sync.RWMutex
	subs map[Event][]handler

	hooks hooks
}

// New creates an empty bus.
func New() *EventBus {
	return &EventBus{
		subs: make(map[Event][]handler),
	}
}

func (bus *EventBus) subscribe(event Event, fn handler) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

// publish runs every subscriber of event and reports whether any of them
// asked to suppress it. All subscribers run even after one suppresses.
func (bus *EventBus) publish(event Event, payload any) bool {
	bus.mu.RLock()
	subs := make([]handler, len(bus.subs[event]))
	copy(subs, bus.subs[event])
	bus.mu.RUnlock()

	bus.runOnPublish(event, payload)

	suppressed := false
	for _, fn := range subs {
		if bus.dispatch(event, payload, fn) {
			suppressed = true
		}
	}
	return suppressed
}

func (bus *EventBus) dispatch(event Event, payload any, fn handler) (suppress bool) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(event, payload, r)
			suppress = false
		}
	}()
	return fn(payload)
}

// SubscriberCount returns the number of subscribers for event.
func (bus *EventBus) SubscriberCount(event Event) int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs[event])
}

// SubscribeKeyDown registers a cancelable key-down subscriber. Returning
// true suppresses the key's default action.
func (bus *EventBus) SubscribeKeyDown(fn func(KeyDownPayload) bool) {
	bus.subscribe(EventKeyDown, func(p any) bool { return fn(p.(KeyDownPayload)) })
}

// PublishKeyDown broadcasts a key-down and reports whether any subscriber
// suppressed it.
func (bus *EventBus) PublishKeyDown(p KeyDownPayload) (suppressed bool) {
	return bus.publish(EventKeyDown, p)
}

// SubscribeKeyUp registers a key-up subscriber.
func (bus *EventBus) SubscribeKeyUp(fn func(KeyUpPayload)) {
	bus.subscribe(EventKeyUp, func(p any) bool { fn(p.(KeyUpPayload)); return false })
}

// PublishKeyUp broadcasts a key-up.
func (bus *EventBus) PublishKeyUp(p KeyUpPayload) {
	bus.publish(EventKeyUp, p)
}

func (bus *EventBus) SubscribeRouteChanged(fn func(RouteChangedPayload)) {
	bus.subscribe(EventRouteChanged, func(p any) bool { fn(p.(RouteChangedPayload)); return false })
}

func (bus *EventBus) PublishRouteChanged(p RouteChangedPayload) {
	bus.publish(EventRouteChanged, p)
}

func (bus *EventBus) SubscribePermissionsLoaded(fn func(PermissionsLoadedPayload)) {
	bus.subscribe(EventPermissionsLoaded, func(p any) bool { fn(p.(PermissionsLoadedPayload)); return false })
}

func (bus *EventBus) PublishPermissionsLoaded(p PermissionsLoadedPayload) {
	bus.publish(EventPermissionsLoaded, p)
}

func (bus *EventBus) SubscribePermissionsFailed(fn func(PermissionsFailedPayload)) {
	bus.subscribe(EventPermissionsFailed, func(p any) bool { fn(p.(PermissionsFailedPayload)); return false })
}

func (bus *EventBus) PublishPermissionsFailed(p PermissionsFailedPayload) {
	bus.publish(EventPermissionsFailed, p)
}

func (bus *EventBus) SubscribeNotificationAdded(fn func(NotificationAddedPayload)) {
	bus.subscribe(EventNotificationAdded, func(p any) bool { fn(p.(NotificationAddedPayload)); return false })
}

func (bus *EventBus) PublishNotificationAdded(p NotificationAddedPayload) {
	bus.publish(EventNotificationAdded, p)
}

func (bus *EventBus) SubscribeNotificationRemoved(fn func(NotificationRemovedPayload)) {
	bus.subscribe(EventNotificationRemoved, func(p any) bool { fn(p.(NotificationRemovedPayload)); return false })
}

func (bus *EventBus) PublishNotificationRemoved(p NotificationRemovedPayload) {
	bus.publish(EventNotificationRemoved, p)
}

func (bus *EventBus) SubscribeStatusChanged(fn func(StatusChangedPayload)) {
	bus.subscribe(EventStatusChanged, func(p any) bool { fn(p.(StatusChangedPayload)); return false })
}

func (bus *EventBus) PublishStatusChanged(p StatusChangedPayload) {
	bus.publish(EventStatusChanged, p)
}

func (bus *EventBus) SubscribeSessionEnded(fn func(SessionEndedPayload)) {
	bus.subscribe(EventSessionEnded, func(p any) bool { fn(p.(SessionEndedPayload)); return false })
}

func (bus *EventBus) PublishSessionEnded(p SessionEndedPayload) {
	bus.publish(EventSessionEnded, p)
}

// AttachRouter republishes every navigation of r as a route.changed event.
func (bus *EventBus) AttachRouter(r *route.Router) {
	r.OnChange(func(c route.Change) {
		bus.PublishRouteChanged(RouteChangedPayload{
			Path:     c.Path,
			Current:  c.Current,
			Previous: c.Previous,
		})
	})
}
