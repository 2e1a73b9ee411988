package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"
)

// dispatchMsg tells the loop that continuations are waiting in the queue.
type dispatchMsg struct{}

// DispatchQueue carries continuations from background goroutines to the UI
// loop. It implements shell.Dispatcher. Signals are coalesced: one
// dispatchMsg drains everything queued so far.
type DispatchQueue struct {
	mu     sync.Mutex
	fns    []func()
	signal chan struct{}
}

// NewDispatchQueue constructs an empty queue.
func NewDispatchQueue() *DispatchQueue {
	return &DispatchQueue{
		signal: make(chan struct{}, 1),
	}
}

// Dispatch queues fn and emits a non-blocking drain signal. Safe for
// concurrent use.
func (q *DispatchQueue) Dispatch(fn func()) {
	if fn == nil {
		return
	}

	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Drain returns the queued continuations in dispatch order and clears the
// queue.
func (q *DispatchQueue) Drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.fns) == 0 {
		return nil
	}

	out := q.fns
	q.fns = nil
	return out
}

// WaitForSignal blocks until there are continuations ready to drain.
func (q *DispatchQueue) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-q.signal
		return dispatchMsg{}
	}
}
