// Package tui runs the shell controller inside a Bubble Tea program. It
// translates terminal input into keyboard driver calls, drains continuations
// posted by background work, and renders the controller state.
package tui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/portal/internal/core/config"
	"github.com/colonyops/portal/internal/core/eventbus"
	"github.com/colonyops/portal/internal/core/keyboard"
	"github.com/colonyops/portal/internal/core/logging"
	"github.com/colonyops/portal/internal/core/notify"
	"github.com/colonyops/portal/internal/core/permission"
	"github.com/colonyops/portal/internal/core/route"
	"github.com/colonyops/portal/internal/tui/views/shell"
)

const (
	connectionsPath = "/connections"
	settingsPath    = "/settings"

	loadedNoticeTTL = 5 * time.Second
)

// Session is the authentication service the UI signs in against.
type Session interface {
	shell.Authenticator
	shell.PermissionSource
	Login(ctx context.Context, username, password string) error
}

// Options configures the TUI model.
type Options struct {
	Config  *config.Config
	Session Session
	// Checker evaluates permission sets. Defaults to permission.Checker.
	Checker shell.PermissionChecker
}

// Model is the Bubble Tea model for the portal shell.
type Model struct {
	ctx     context.Context
	cfg     *config.Config
	session Session

	bus    *eventbus.EventBus
	router *route.Router
	kb     *keyboard.Keyboard
	queue  *DispatchQueue
	ctrl   *shell.Controller

	ticker        *CountdownTicker
	notifications *NotificationsView
	status        *StatusModal
	login         *LoginForm
	help          help.Model
	keys          KeyMap

	width  int
	height int

	// pending collects commands produced by bus subscribers during an
	// update; they are returned with the update's result.
	pending []tea.Cmd
}

// New wires the shell: event bus, router, keyboard driver, dispatch queue
// and controller. The controller's start up sequence runs here, so the
// first route is known before the program starts.
func New(ctx context.Context, opts Options) *Model {
	cfg := opts.Config
	checker := opts.Checker
	if checker == nil {
		checker = permission.Checker{}
	}

	bus := eventbus.New()
	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))

	router := route.New(cfg.RouteTable(), cfg.Otherwise)
	bus.AttachRouter(router)

	md := newMarkdownRenderer(cfg.TUI.MarkdownEnabled())

	m := &Model{
		ctx:           ctx,
		cfg:           cfg,
		session:       opts.Session,
		bus:           bus,
		router:        router,
		kb:            keyboard.New(),
		queue:         NewDispatchQueue(),
		ticker:        NewCountdownTicker(cfg.TUI.CountdownTick),
		notifications: NewNotificationsView(md),
		status:        NewStatusModal(md),
		login:         NewLoginForm(),
		help:          help.New(),
		keys:          DefaultKeyMap(),
	}

	m.subscribe()

	m.ctrl = shell.New(ctx, shell.Deps{
		Auth:        opts.Session,
		Permissions: opts.Session,
		Checker:     checker,
		Keyboard:    m.kb,
		Navigator:   router,
		Dispatcher:  m.queue,
		Bus:         bus,
	})

	eventbus.NewNotificationRouter(bus, m.ctrl).Register()

	if router.Current() == nil {
		router.Path("/")
	}

	return m
}

// Controller exposes the shell controller.
func (m *Model) Controller() *shell.Controller {
	return m.ctrl
}

func (m *Model) subscribe() {
	m.bus.SubscribeKeyDown(m.handleKeyDown)

	m.bus.SubscribeRouteChanged(func(p eventbus.RouteChangedPayload) {
		if p.Path == shell.LoginPath {
			m.login.Reset()
			m.pending = append(m.pending, m.login.Focus())
		}
	})

	m.bus.SubscribePermissionsLoaded(func(p eventbus.PermissionsLoadedPayload) {
		text := "Signed in as **" + p.UserID + "**"
		if p.IsAdmin {
			text += " with administrative access"
		}
		m.ctrl.AddNotification(notify.Notification{
			Title:     "Permissions loaded",
			Text:      text,
			Level:     notify.LevelInfo,
			ClassName: string(notify.LevelInfo),
			Countdown: &notify.Countdown{Text: "closing in", Remaining: loadedNoticeTTL},
		})
	})

	m.bus.SubscribeSessionEnded(func(eventbus.SessionEndedPayload) {
		m.ctrl.HideStatus()
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.queue.WaitForSignal(), m.flush())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width)

	case tea.KeyboardEnhancementsMsg:
		m.kb.SetReleaseEvents(msg.SupportsEventTypes())

	case tea.BlurMsg:
		m.ctrl.SafeApply(m.ctrl.HandleBlur)

	case tea.KeyPressMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		cmds = append(cmds, m.handleKeyPress(msg))

	case tea.KeyReleaseMsg:
		if sym, ok := keysymFor(msg.Key()); ok {
			m.ctrl.SafeApply(func() { m.kb.Release(sym) })
		}

	case dispatchMsg:
		fns := m.queue.Drain()
		m.ctrl.SafeApply(func() {
			for _, fn := range fns {
				fn()
			}
		})
		cmds = append(cmds, m.queue.WaitForSignal())

	case countdownTickMsg:
		m.ctrl.SafeApply(func() { m.ticker.Tick(m.ticker.Interval(), m.ctrl) })
		if m.ticker.Pending(m.ctrl.State()) {
			cmds = append(cmds, scheduleCountdownTick(m.ticker.Interval()))
		} else {
			m.ticker.SetTicking(false)
		}

	case spinner.TickMsg:
		cmds = append(cmds, m.status.UpdateSpinner(msg, m.ctrl.State().Status != nil))

	default:
		if m.onLoginPage() {
			cmds = append(cmds, m.login.Update(msg))
		}
	}

	cmds = append(cmds, m.flush())
	return m, tea.Batch(cmds...)
}

// flush returns the commands queued by subscribers and starts the countdown
// ticker and the status spinner when they are needed.
func (m *Model) flush() tea.Cmd {
	cmds := m.pending
	m.pending = nil

	st := m.ctrl.State()
	if !m.ticker.Ticking() && m.ticker.Pending(st) {
		m.ticker.SetTicking(true)
		cmds = append(cmds, scheduleCountdownTick(m.ticker.Interval()))
	}
	if st.Status != nil {
		cmds = append(cmds, m.status.StartSpinner())
	}

	return tea.Batch(cmds...)
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	sym, ok := keysymFor(msg.Key())
	if !ok {
		return m.defaultKeyAction(msg)
	}

	allow := true
	m.ctrl.SafeApply(func() {
		if m.kb.ReleaseEvents() {
			allow = m.kb.Press(sym)
		} else {
			allow = m.kb.Tap(sym)
		}
	})

	if !allow {
		return nil
	}
	if key.Matches(msg, m.keys.NotificationAction) {
		m.ctrl.SafeApply(func() { m.runNotificationAction(msg) })
		return nil
	}
	return m.defaultKeyAction(msg)
}

// defaultKeyAction runs when no key-down subscriber suppressed the key.
func (m *Model) defaultKeyAction(msg tea.KeyPressMsg) tea.Cmd {
	if m.onLoginPage() {
		return m.login.Update(msg)
	}
	return nil
}

// runNotificationAction invokes an action of the newest notification that
// has actions, then dismisses it. It only runs when no key-down subscriber
// suppressed the digit, so an open status modal keeps the keys.
func (m *Model) runNotificationAction(msg tea.KeyPressMsg) {
	r := msg.Key().Code
	st := m.ctrl.State()
	for i := len(st.Notifications) - 1; i >= 0; i-- {
		e := st.Notifications[i]
		if len(e.Notification.Actions) == 0 {
			continue
		}
		idx, ok := statusActionIndex(r, len(e.Notification.Actions))
		if !ok {
			return
		}
		runCallback("notification action", e.Notification.Actions[idx].Callback)
		m.ctrl.RemoveNotification(e.ID)
		return
	}
}

// handleKeyDown is the shell's key-down subscriber. It returns true to
// suppress the key's default action.
func (m *Model) handleKeyDown(p eventbus.KeyDownPayload) bool {
	st := m.ctrl.State()

	// The status modal owns the keyboard.
	if st.Status != nil {
		if r, ok := p.Key.Rune(); ok {
			if idx, ok := statusActionIndex(r, len(st.Status.Actions)); ok {
				runCallback("status action", st.Status.Actions[idx].Callback)
			}
		}
		return true
	}

	switch p.Key {
	case shellKeys.Help:
		m.help.ShowAll = !m.help.ShowAll
		return true
	case keyboard.KeyEscape:
		if n := len(st.Notifications); n > 0 {
			m.ctrl.RemoveNotification(st.Notifications[n-1].ID)
			return true
		}
		return false
	}

	if st.CurrentUserID == "" {
		return m.handleLoginKey(p.Key)
	}

	switch p.Key {
	case shellKeys.Home:
		m.router.Path("/")
	case shellKeys.Connections:
		m.router.Path(connectionsPath)
	case shellKeys.Settings:
		m.router.Path(settingsPath)
	case shellKeys.Reload:
		m.ctrl.LoadPermissions()
	case shellKeys.Logout:
		m.ctrl.ShowStatus(&notify.Notification{Title: "Signing out", Level: notify.LevelInfo})
		m.ctrl.Logout()
	default:
		return false
	}
	return true
}

func (m *Model) handleLoginKey(k keyboard.Keysym) bool {
	if !m.onLoginPage() {
		return false
	}

	switch k {
	case keyboard.KeyTab:
		m.pending = append(m.pending, m.login.NextField())
		return true
	case keyboard.KeyReturn:
		m.submitLogin()
		return true
	}
	return false
}

// submitLogin signs in on a background goroutine. The result is applied on
// the UI loop through the dispatch queue.
func (m *Model) submitLogin() {
	if m.login.Busy() {
		return
	}
	if !m.login.Valid() {
		m.login.SetError(fmt.Errorf("username and password are required"))
		return
	}

	username, password := m.login.Credentials()
	m.login.SetBusy(true)
	m.ctrl.ShowStatus(&notify.Notification{
		Title: "Signing in",
		Text:  "Contacting " + m.cfg.Gateway.URL,
		Level: notify.LevelInfo,
	})

	ctx := logging.WithUserID(m.ctx, username)
	go func() {
		err := m.session.Login(ctx, username, password)
		m.queue.Dispatch(func() {
			m.ctrl.SafeApply(func() { m.applyLogin(err) })
		})
	}()
}

func (m *Model) applyLogin(err error) {
	m.ctrl.HideStatus()
	m.login.SetBusy(false)

	if err != nil {
		l := logging.Component("tui")
		l.Warn().Ctx(m.ctx).Err(err).Msg("login failed")
		m.login.SetError(err)
		return
	}

	m.login.Reset()
	m.ctrl.SignIn()
	if m.ctrl.State().CurrentUserID != "" {
		m.router.Path("/")
	}
}

func (m *Model) onLoginPage() bool {
	return pageFor(m.router.CurrentPath()) == pageLogin
}
