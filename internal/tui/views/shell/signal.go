package shell

import (
	"context"
	"sync"
)

// Signal is a single-fire completion marker. It can be resolved any number
// of times; only the first call has an effect. Any number of readers may
// wait on it.
type Signal struct {
	once sync.Once
	done chan struct{}
}

// NewSignal returns an unresolved signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Resolve marks the signal complete and releases all waiters.
func (s *Signal) Resolve() {
	s.once.Do(func() { close(s.done) })
}

// Done returns a channel that is closed once the signal resolves.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Resolved reports whether Resolve has been called.
func (s *Signal) Resolved() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the signal resolves or ctx is done.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
