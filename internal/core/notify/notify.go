// Package notify defines the notification payloads shown by the shell: list
// notifications and the single modal status.
package notify

import "time"

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is the display data for a notification or status. Every
// field is optional.
type Notification struct {
	Title     string
	Text      string
	ClassName string
	Level     Level

	Countdown *Countdown
	Progress  *Progress
	Actions   []Action
}

// Countdown describes a timer attached to a notification. The renderer
// decrements Remaining and invokes Callback once it reaches zero.
type Countdown struct {
	Text      string
	Remaining time.Duration
	Callback  func()
}

// Progress describes an operation in flight.
type Progress struct {
	Text  string
	Value float64
	Unit  string

	// Ratio is the completed fraction in [0, 1], nil when unknown.
	Ratio *float64
}

// Action is a named callback the user can invoke from a notification.
type Action struct {
	Name     string
	Callback func()
}

// Entry is a notification stored in the shell's list together with its
// unique id.
type Entry struct {
	ID           int
	Notification Notification
}

// IsZero reports whether n carries no displayable content. A zero
// notification hides the status slot the same way nil does.
func (n *Notification) IsZero() bool {
	if n == nil {
		return true
	}
	return n.Title == "" &&
		n.Text == "" &&
		n.ClassName == "" &&
		n.Countdown == nil &&
		n.Progress == nil &&
		len(n.Actions) == 0
}

// Ratio is a convenience for building a Progress with a known ratio.
func Ratio(r float64) *float64 {
	r = min(max(r, 0), 1)
	return &r
}
