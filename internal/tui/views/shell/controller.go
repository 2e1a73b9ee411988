// Package shell implements the application shell controller. It owns the
// per-session view state (page metadata, the signed in user and their
// permission flags, the notification list and the status slot) and binds
// it to the authentication, permission, keyboard and routing services.
//
// The controller has no Bubble Tea dependencies. All methods must be called
// from the UI loop; results of background calls are posted back through the
// Dispatcher.
package shell

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/portal/internal/core/eventbus"
	"github.com/colonyops/portal/internal/core/keyboard"
	"github.com/colonyops/portal/internal/core/logging"
	"github.com/colonyops/portal/internal/core/notify"
	"github.com/colonyops/portal/internal/core/permission"
)

// LoginPath is where the shell sends users without a session.
const LoginPath = "/login"

// Authenticator provides the signed in user and ends sessions.
type Authenticator interface {
	// CurrentUserID returns the signed in user, empty when there is none.
	CurrentUserID() string
	Logout(ctx context.Context) error
}

// PermissionSource fetches the permissions granted to a user.
type PermissionSource interface {
	Permissions(ctx context.Context, userID string) (permission.Set, error)
}

// PermissionChecker evaluates a permission set. Empty filters match any
// value.
type PermissionChecker interface {
	Check(set *permission.Set, objectType permission.ObjectType, objectID string, action permission.Action) bool
}

// Keyboard is the key capture driver.
type Keyboard interface {
	SetHandlers(down keyboard.DownHandler, up keyboard.UpHandler)
	Reset()
}

// Navigator changes the current location.
type Navigator interface {
	Path(p string)
}

// Dispatcher runs fn on the UI loop.
type Dispatcher interface {
	Dispatch(fn func())
}

// Page is the metadata of the active view.
type Page struct {
	Title         string
	BodyClassName string
}

// State is the view state rendered by the UI.
type State struct {
	Page Page

	CurrentUserID          string
	CurrentUserIsAdmin     bool
	CurrentUserHasUpdate   bool
	CurrentUserPermissions *permission.Set

	// Notifications in insertion order.
	Notifications []notify.Entry
	// Status is the single status slot, nil when empty.
	Status *notify.Notification

	// PermissionsErr is the most recent permission load failure. It is
	// cleared by the next successful load.
	PermissionsErr error
}

// Deps are the services the controller is composed from.
type Deps struct {
	Auth        Authenticator
	Permissions PermissionSource
	Checker     PermissionChecker
	Keyboard    Keyboard
	Navigator   Navigator
	Dispatcher  Dispatcher
	Bus         *eventbus.EventBus
}

// Controller owns the shell view state.
type Controller struct {
	ctx    context.Context
	viewID string
	logger zerolog.Logger

	auth       Authenticator
	perms      PermissionSource
	checker    PermissionChecker
	kb         Keyboard
	nav        Navigator
	dispatcher Dispatcher
	bus        *eventbus.EventBus

	state     State
	lastID    int
	ready     *Signal
	applying  bool
	listeners []func()
}

// New creates the controller and runs its start up sequence: without a
// signed in user it navigates to the login view, otherwise it starts
// loading the user's permissions.
//
// deps.Dispatcher is required. Background results are only ever applied
// through it, so it must run continuations on the UI loop.
func New(ctx context.Context, deps Deps) *Controller {
	if deps.Dispatcher == nil {
		panic("shell: Deps.Dispatcher is required")
	}

	viewID := uuid.NewString()

	c := &Controller{
		ctx:        logging.WithViewID(ctx, viewID),
		viewID:     viewID,
		logger:     logging.Component("shell"),
		auth:       deps.Auth,
		perms:      deps.Permissions,
		checker:    deps.Checker,
		kb:         deps.Keyboard,
		nav:        deps.Navigator,
		dispatcher: deps.Dispatcher,
		bus:        deps.Bus,
		ready:      NewSignal(),
	}

	if c.bus == nil {
		c.bus = eventbus.New()
	}

	c.bus.SubscribeRouteChanged(c.handleRouteChanged)

	if c.kb != nil {
		c.kb.SetHandlers(c.handleKeyDown, c.handleKeyUp)
	}

	c.state.CurrentUserID = c.auth.CurrentUserID()
	c.logger.Debug().Ctx(c.ctx).Str("user", c.state.CurrentUserID).Msg("shell started")

	if c.state.CurrentUserID == "" {
		c.nav.Path(LoginPath)
	} else {
		c.LoadPermissions()
	}

	return c
}

// ViewID is the unique id of this view session.
func (c *Controller) ViewID() string {
	return c.viewID
}

// State returns a snapshot of the view state. Notification payloads are
// shared with the controller so countdowns can be advanced in place.
func (c *Controller) State() State {
	s := c.state
	s.Notifications = slices.Clone(c.state.Notifications)
	s.CurrentUserPermissions = c.state.CurrentUserPermissions.Clone()
	return s
}

// PermissionsReady resolves the first time permissions load successfully.
// Later reloads update the state without signaling again.
func (c *Controller) PermissionsReady() *Signal {
	return c.ready
}

// ShowStatus puts status in the status slot if the slot is empty. A nil or
// empty status always clears the slot. A status shown while another is
// active is dropped.
func (c *Controller) ShowStatus(status *notify.Notification) {
	if status.IsZero() {
		if c.state.Status == nil {
			return
		}
		c.state.Status = nil
		c.bus.PublishStatusChanged(eventbus.StatusChangedPayload{})
		return
	}

	if c.state.Status != nil {
		c.logger.Debug().Ctx(c.ctx).Str("title", status.Title).Msg("status slot busy, dropping status")
		return
	}

	s := *status
	c.state.Status = &s
	c.bus.PublishStatusChanged(eventbus.StatusChangedPayload{Status: &s})
}

// HideStatus clears the status slot.
func (c *Controller) HideStatus() {
	c.ShowStatus(nil)
}

// AddNotification appends n to the notification list and returns its id.
// Ids start at 1 and are never reused.
func (c *Controller) AddNotification(n notify.Notification) int {
	c.lastID++
	id := c.lastID

	c.state.Notifications = append(c.state.Notifications, notify.Entry{ID: id, Notification: n})
	c.bus.PublishNotificationAdded(eventbus.NotificationAddedPayload{ID: id, Notification: n})

	return id
}

// RemoveNotification removes the notification with the given id. Unknown
// ids are ignored.
func (c *Controller) RemoveNotification(id int) {
	idx := slices.IndexFunc(c.state.Notifications, func(e notify.Entry) bool { return e.ID == id })
	if idx < 0 {
		return
	}

	c.state.Notifications = slices.Delete(c.state.Notifications, idx, idx+1)
	c.bus.PublishNotificationRemoved(eventbus.NotificationRemovedPayload{ID: id})
}

// LoadPermissions fetches the current user's permissions in the background.
// On success the permission flags are recomputed and the ready signal is
// resolved. A failure is recorded in PermissionsErr and published; it is
// not retried.
func (c *Controller) LoadPermissions() {
	userID := c.state.CurrentUserID
	ctx := logging.WithUserID(c.ctx, userID)

	go func() {
		set, err := c.perms.Permissions(ctx, userID)
		c.dispatcher.Dispatch(func() {
			c.SafeApply(func() { c.applyPermissions(ctx, userID, set, err) })
		})
	}()
}

func (c *Controller) applyPermissions(ctx context.Context, userID string, set permission.Set, err error) {
	if userID != c.state.CurrentUserID {
		c.logger.Debug().Ctx(ctx).Msg("discarding permissions for previous user")
		return
	}

	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Msg("failed to load permissions")
		c.state.PermissionsErr = err
		c.bus.PublishPermissionsFailed(eventbus.PermissionsFailedPayload{UserID: userID, Err: err})
		return
	}

	perms := &set
	c.state.CurrentUserPermissions = perms
	c.state.PermissionsErr = nil
	c.state.CurrentUserIsAdmin = c.checker.Check(perms, permission.TypeSystem, "", permission.ActionAdminister)
	c.state.CurrentUserHasUpdate = c.state.CurrentUserIsAdmin ||
		c.checker.Check(perms, "", "", permission.ActionUpdate)

	c.logger.Debug().Ctx(ctx).
		Int("grants", set.Len()).
		Bool("admin", c.state.CurrentUserIsAdmin).
		Bool("update", c.state.CurrentUserHasUpdate).
		Msg("permissions loaded")

	c.bus.PublishPermissionsLoaded(eventbus.PermissionsLoadedPayload{
		UserID:    userID,
		IsAdmin:   c.state.CurrentUserIsAdmin,
		HasUpdate: c.state.CurrentUserHasUpdate,
	})

	c.ready.Resolve()
}

// SignIn picks up a session started after the controller was created, such
// as a login from the login view, and reloads permissions.
func (c *Controller) SignIn() {
	c.clearUser()
	c.state.CurrentUserID = c.auth.CurrentUserID()
	if c.state.CurrentUserID == "" {
		c.nav.Path(LoginPath)
		return
	}
	c.LoadPermissions()
}

// Logout ends the session in the background and then navigates to the login
// view, whether or not the logout succeeded.
func (c *Controller) Logout() {
	userID := c.state.CurrentUserID
	ctx := logging.WithUserID(c.ctx, userID)

	go func() {
		err := c.auth.Logout(ctx)
		c.dispatcher.Dispatch(func() {
			c.SafeApply(func() {
				if err != nil {
					c.logger.Warn().Ctx(ctx).Err(err).Msg("logout failed")
				}
				c.clearUser()
				c.bus.PublishSessionEnded(eventbus.SessionEndedPayload{UserID: userID, Err: err})
				c.nav.Path(LoginPath)
			})
		})
	}()
}

func (c *Controller) clearUser() {
	c.state.CurrentUserID = ""
	c.state.CurrentUserIsAdmin = false
	c.state.CurrentUserHasUpdate = false
	c.state.CurrentUserPermissions = nil
	c.state.PermissionsErr = nil
}

// HandleBlur releases all held keys when the terminal loses focus.
func (c *Controller) HandleBlur() {
	if c.kb != nil {
		c.kb.Reset()
	}
}

// OnChange registers fn to be called after each apply cycle completes.
func (c *Controller) OnChange(fn func()) {
	c.listeners = append(c.listeners, fn)
}

// SafeApply runs fn and then notifies change listeners. Calls nested inside
// a running apply cycle only run fn; the outermost cycle notifies once.
func (c *Controller) SafeApply(fn func()) {
	if c.applying {
		fn()
		return
	}

	c.applying = true
	func() {
		defer func() { c.applying = false }()
		fn()
	}()

	for _, l := range c.listeners {
		l()
	}
}

// handleKeyDown publishes the key and tells the driver whether to run the
// key's default action.
func (c *Controller) handleKeyDown(key keyboard.Keysym) bool {
	suppressed := c.bus.PublishKeyDown(eventbus.KeyDownPayload{Key: key})
	return !suppressed
}

func (c *Controller) handleKeyUp(key keyboard.Keysym) {
	c.bus.PublishKeyUp(eventbus.KeyUpPayload{Key: key})
}

func (c *Controller) handleRouteChanged(p eventbus.RouteChangedPayload) {
	if p.Current == nil {
		return
	}

	if p.Current.Title != "" {
		c.state.Page.Title = p.Current.Title
	}
	c.state.Page.BodyClassName = p.Current.BodyClassName
}
