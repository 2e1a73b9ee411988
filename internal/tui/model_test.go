package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/portal/internal/core/config"
	"github.com/colonyops/portal/internal/core/eventbus"
	"github.com/colonyops/portal/internal/core/keyboard"
	"github.com/colonyops/portal/internal/core/notify"
	"github.com/colonyops/portal/internal/core/permission"
)

type fakeSession struct {
	mu sync.Mutex

	user      string
	perms     permission.Set
	permErr   error
	loginErr  error
	logoutErr error

	logins  []string
	logouts int
}

func (f *fakeSession) CurrentUserID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *fakeSession) Login(_ context.Context, username, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, username)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.user = username
	return nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.user = ""
	return f.logoutErr
}

func (f *fakeSession) Permissions(context.Context, string) (permission.Set, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perms, f.permErr
}

func newTestModel(t *testing.T, session *fakeSession) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.TUI.Markdown = new(bool)
	cfg.DataDir = t.TempDir()

	m := New(context.Background(), Options{Config: &cfg, Session: session})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// waitDispatch blocks until background work posts a continuation, then
// delivers it to the model.
func waitDispatch(t *testing.T, m *Model) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		_ = m.queue.WaitForSignal()()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatched continuation")
	}

	m.Update(dispatchMsg{})
}

func press(m *Model, code rune) {
	m.Update(tea.KeyPressMsg{Code: code})
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func adminPerms() permission.Set {
	return permission.Set{Grants: []permission.Grant{
		{ObjectType: permission.TypeSystem, Action: permission.ActionAdminister},
		{ObjectType: permission.TypeConnection, ObjectID: "db-1", Action: permission.ActionRead},
	}}
}

func TestModel_starts_on_login_without_session(t *testing.T) {
	m := newTestModel(t, &fakeSession{})

	st := m.Controller().State()
	assert.Equal(t, "/login", m.router.CurrentPath())
	assert.Equal(t, "Login", st.Page.Title)
	assert.Equal(t, "login", st.Page.BodyClassName)

	v := m.View()
	assert.Equal(t, "Login · portal", v.WindowTitle)
	assert.True(t, v.AltScreen)
	assert.True(t, v.ReportFocus)
	assert.Contains(t, ansi.Strip(v.Content), "Sign in")
}

func TestModel_starts_home_with_session(t *testing.T) {
	session := &fakeSession{user: "alice", perms: adminPerms()}
	m := newTestModel(t, session)

	assert.Equal(t, "/", m.router.CurrentPath())
	waitDispatch(t, m)

	st := m.Controller().State()
	assert.True(t, st.CurrentUserIsAdmin)
	assert.True(t, st.CurrentUserHasUpdate)
	assert.True(t, m.Controller().PermissionsReady().Resolved())

	require.Len(t, st.Notifications, 1)
	assert.Equal(t, "Permissions loaded", st.Notifications[0].Notification.Title)

	out := ansi.Strip(m.View().Content)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "admin")
}

func TestModel_login_flow(t *testing.T) {
	session := &fakeSession{perms: adminPerms()}
	m := newTestModel(t, session)

	typeText(m, "alice")
	press(m, tea.KeyTab)
	typeText(m, "secret")

	u, p := m.login.Credentials()
	assert.Equal(t, "alice", u)
	assert.Equal(t, "secret", p)

	press(m, tea.KeyEnter)

	st := m.Controller().State()
	require.NotNil(t, st.Status, "signing in status is shown while the request runs")
	assert.Equal(t, "Signing in", st.Status.Title)

	waitDispatch(t, m) // login result
	assert.Nil(t, m.Controller().State().Status)
	assert.Equal(t, "/", m.router.CurrentPath())
	assert.Equal(t, "alice", m.Controller().State().CurrentUserID)

	waitDispatch(t, m) // permissions
	assert.True(t, m.Controller().State().CurrentUserIsAdmin)
	assert.Equal(t, []string{"alice"}, session.logins)
}

func TestModel_login_failure_shows_error(t *testing.T) {
	session := &fakeSession{loginErr: errors.New("invalid credentials")}
	m := newTestModel(t, session)

	typeText(m, "alice")
	press(m, tea.KeyTab)
	typeText(m, "wrong")
	press(m, tea.KeyEnter)

	waitDispatch(t, m)

	assert.Equal(t, "/login", m.router.CurrentPath())
	assert.Nil(t, m.Controller().State().Status)
	assert.Contains(t, ansi.Strip(m.View().Content), "invalid credentials")

	_, p := m.login.Credentials()
	assert.Empty(t, p, "password is cleared after a failed attempt")
}

func TestModel_login_requires_credentials(t *testing.T) {
	session := &fakeSession{}
	m := newTestModel(t, session)

	press(m, tea.KeyEnter)

	assert.Nil(t, m.Controller().State().Status)
	assert.Empty(t, session.logins)
	assert.Contains(t, ansi.Strip(m.View().Content), "required")
}

func TestModel_status_owns_keyboard(t *testing.T) {
	m := newTestModel(t, &fakeSession{user: "alice", perms: adminPerms()})
	waitDispatch(t, m)

	var chosen []string
	m.Controller().ShowStatus(&notify.Notification{
		Title: "Connection lost",
		Actions: []notify.Action{
			{Name: "Reconnect", Callback: func() { chosen = append(chosen, "reconnect") }},
			{Name: "Home", Callback: func() { chosen = append(chosen, "home") }},
		},
	})

	press(m, tea.KeyF3) // would navigate without the status
	assert.Equal(t, "/", m.router.CurrentPath())

	typeText(m, "2")
	typeText(m, "7") // no seventh action
	assert.Equal(t, []string{"home"}, chosen)

	out := ansi.Strip(m.View().Content)
	assert.Contains(t, out, "Connection lost")
	assert.Contains(t, out, "Reconnect")
}

func TestModel_escape_dismisses_newest_notification(t *testing.T) {
	m := newTestModel(t, &fakeSession{user: "alice", perms: adminPerms()})
	waitDispatch(t, m)

	m.Controller().AddNotification(notify.Notification{Title: "second"})
	require.Len(t, m.Controller().State().Notifications, 2)

	press(m, tea.KeyEscape)

	st := m.Controller().State()
	require.Len(t, st.Notifications, 1)
	assert.Equal(t, "Permissions loaded", st.Notifications[0].Notification.Title)
}

func TestModel_notification_action(t *testing.T) {
	m := newTestModel(t, &fakeSession{user: "alice", perms: adminPerms()})
	waitDispatch(t, m)

	ran := false
	id := m.Controller().AddNotification(notify.Notification{
		Title:   "Update available",
		Actions: []notify.Action{{Name: "Install", Callback: func() { ran = true }}},
	})

	m.Update(tea.KeyPressMsg{Code: '1', Mod: tea.ModAlt})

	assert.True(t, ran)
	for _, e := range m.Controller().State().Notifications {
		assert.NotEqual(t, id, e.ID)
	}
}

func TestModel_notification_action_can_be_suppressed(t *testing.T) {
	m := newTestModel(t, &fakeSession{user: "alice", perms: adminPerms()})
	waitDispatch(t, m)

	var seen []keyboard.Keysym
	m.bus.SubscribeKeyDown(func(p eventbus.KeyDownPayload) bool {
		seen = append(seen, p.Key)
		return true
	})

	ran := false
	id := m.Controller().AddNotification(notify.Notification{
		Title:   "Update available",
		Actions: []notify.Action{{Name: "Install", Callback: func() { ran = true }}},
	})

	m.Update(tea.KeyPressMsg{Code: '1', Mod: tea.ModAlt})

	assert.Equal(t, []keyboard.Keysym{keyboard.FromRune('1')}, seen)
	assert.False(t, ran)

	var ids []int
	for _, e := range m.Controller().State().Notifications {
		ids = append(ids, e.ID)
	}
	assert.Contains(t, ids, id)
}

func TestModel_navigation_keys(t *testing.T) {
	m := newTestModel(t, &fakeSession{user: "alice", perms: adminPerms()})
	waitDispatch(t, m)

	press(m, tea.KeyF3)
	assert.Equal(t, "/connections", m.router.CurrentPath())
	assert.Equal(t, "Connections", m.Controller().State().Page.Title)
	assert.Contains(t, ansi.Strip(m.View().Content), "db-1")

	press(m, tea.KeyF4)
	st := m.Controller().State()
	assert.Equal(t, "/settings", m.router.CurrentPath())
	assert.Equal(t, "Connections", st.Page.Title, "settings declares no title")
	assert.Equal(t, "settings", st.Page.BodyClassName)

	press(m, tea.KeyF2)
	assert.Equal(t, "Home", m.Controller().State().Page.Title)
}

func TestModel_logout(t *testing.T) {
	session := &fakeSession{user: "alice", perms: adminPerms()}
	m := newTestModel(t, session)
	waitDispatch(t, m)

	press(m, tea.KeyF9)
	require.NotNil(t, m.Controller().State().Status)

	waitDispatch(t, m)

	st := m.Controller().State()
	assert.Nil(t, st.Status)
	assert.Empty(t, st.CurrentUserID)
	assert.Equal(t, "/login", m.router.CurrentPath())
	assert.Equal(t, 1, session.logouts)
}

func TestModel_permission_failure_notifies(t *testing.T) {
	m := newTestModel(t, &fakeSession{user: "alice", permErr: errors.New("gateway down")})
	waitDispatch(t, m)

	st := m.Controller().State()
	require.Error(t, st.PermissionsErr)
	require.Len(t, st.Notifications, 1)
	assert.Equal(t, notify.LevelError, st.Notifications[0].Notification.Level)
	assert.Contains(t, ansi.Strip(m.View().Content), "press F5 to retry")
}

func TestModel_blur_releases_held_keys(t *testing.T) {
	m := newTestModel(t, &fakeSession{})
	m.Update(tea.KeyboardEnhancementsMsg{Flags: ansi.KittyReportEventTypes})
	require.True(t, m.kb.ReleaseEvents())

	m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	assert.True(t, m.kb.IsPressed(keyboard.FromRune('a')))

	m.Update(tea.BlurMsg{})
	assert.Empty(t, m.kb.Pressed())
}

func TestModel_key_release(t *testing.T) {
	m := newTestModel(t, &fakeSession{})
	m.Update(tea.KeyboardEnhancementsMsg{Flags: ansi.KittyReportEventTypes})

	m.Update(tea.KeyPressMsg{Code: tea.KeyLeftShift})
	assert.True(t, m.kb.IsPressed(keyboard.KeyShiftL))

	m.Update(tea.KeyReleaseMsg{Code: tea.KeyLeftShift})
	assert.False(t, m.kb.IsPressed(keyboard.KeyShiftL))
}

func TestModel_help_toggle(t *testing.T) {
	m := newTestModel(t, &fakeSession{})

	press(m, tea.KeyF1)
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, ansi.Strip(m.View().Content), "reload permissions")

	press(m, tea.KeyF1)
	assert.False(t, m.help.ShowAll)
}

func TestModel_quit(t *testing.T) {
	m := newTestModel(t, &fakeSession{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_countdown_expires_notification(t *testing.T) {
	m := newTestModel(t, &fakeSession{user: "alice", perms: adminPerms()})
	waitDispatch(t, m)
	require.True(t, m.ticker.Ticking())

	for range 5 {
		m.Update(countdownTickMsg(time.Now()))
	}

	assert.Empty(t, m.Controller().State().Notifications)
	assert.False(t, m.ticker.Ticking())
}

func TestPageFor(t *testing.T) {
	tests := []struct {
		path string
		want page
	}{
		{"/login", pageLogin},
		{"/", pageHome},
		{"/connections", pageConnections},
		{"/connections/db-1", pageConnections},
		{"/connectionsx", pageHome},
		{"/settings/theme", pageSettings},
		{"/elsewhere", pageHome},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, pageFor(tt.path))
		})
	}
}

func TestModel_login_page_ignores_body_class(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TUI.Markdown = new(bool)
	cfg.DataDir = t.TempDir()
	for i := range cfg.Routes {
		if cfg.Routes[i].Path == "/login" {
			cfg.Routes[i].BodyClass = "signin"
		}
	}

	m := New(context.Background(), Options{Config: &cfg, Session: &fakeSession{}})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, "signin", m.Controller().State().Page.BodyClassName)
	assert.Contains(t, ansi.Strip(m.View().Content), "Sign in")

	typeText(m, "bob")
	user, _ := m.login.Credentials()
	assert.Equal(t, "bob", user)
}
