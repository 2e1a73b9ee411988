package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/portal/internal/core/styles"
)

const loginFormWidth = 40

// LoginForm collects credentials for the login page.
type LoginForm struct {
	username textinput.Model
	password textinput.Model
	focused  int
	err      string
	busy     bool
}

func NewLoginForm() *LoginForm {
	username := textinput.New()
	username.Prompt = styles.IconUser + " "
	username.Placeholder = "username"
	username.CharLimit = 128
	username.SetWidth(loginFormWidth - 4)

	password := textinput.New()
	password.Prompt = styles.IconLock + " "
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 256
	password.SetWidth(loginFormWidth - 4)

	return &LoginForm{username: username, password: password}
}

// Focus focuses the active field.
func (f *LoginForm) Focus() tea.Cmd {
	if f.focused == 0 {
		f.password.Blur()
		return f.username.Focus()
	}
	f.username.Blur()
	return f.password.Focus()
}

// NextField moves focus to the other field.
func (f *LoginForm) NextField() tea.Cmd {
	f.focused = (f.focused + 1) % 2
	return f.Focus()
}

// Update forwards msg to the focused field. Input is ignored while a
// submission is in flight.
func (f *LoginForm) Update(msg tea.Msg) tea.Cmd {
	if f.busy {
		return nil
	}

	var cmd tea.Cmd
	if f.focused == 0 {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return cmd
}

// Credentials returns the entered username and password.
func (f *LoginForm) Credentials() (string, string) {
	return strings.TrimSpace(f.username.Value()), f.password.Value()
}

// Valid reports whether both fields are filled in.
func (f *LoginForm) Valid() bool {
	u, p := f.Credentials()
	return u != "" && p != ""
}

func (f *LoginForm) SetBusy(v bool) {
	f.busy = v
}

func (f *LoginForm) Busy() bool {
	return f.busy
}

// SetError shows err under the form and clears the password.
func (f *LoginForm) SetError(err error) {
	if err == nil {
		f.err = ""
		return
	}
	f.err = err.Error()
	f.password.Reset()
	f.focused = 1
}

// Reset clears both fields and the error.
func (f *LoginForm) Reset() {
	f.username.Reset()
	f.password.Reset()
	f.err = ""
	f.busy = false
	f.focused = 0
}

func (f *LoginForm) View() string {
	fieldStyle := func(idx int) lipgloss.Style {
		if idx == f.focused {
			return styles.FormFieldFocusedStyle
		}
		return styles.FormFieldStyle
	}

	lines := []string{
		styles.FormTitleStyle.Render("Sign in"),
		"",
		fieldStyle(0).Render(f.username.View()),
		fieldStyle(1).Render(f.password.View()),
	}

	if f.err != "" {
		lines = append(lines, "", styles.FormErrorStyle.Render(styles.IconError+" "+f.err))
	}

	lines = append(lines, "", styles.FormHelpStyle.Render("tab next field  enter sign in"))

	return lipgloss.NewStyle().Width(loginFormWidth).Render(strings.Join(lines, "\n"))
}
