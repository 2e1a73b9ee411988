// Package route resolves navigation paths against the configured route table
// and notifies listeners when navigation completes.
package route

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoRoute is returned when no route matches a path.
var ErrNoRoute = errors.New("no route matches path")

// Route describes one navigable view. Title and BodyClassName are optional.
type Route struct {
	Pattern       string
	Title         string
	BodyClassName string
}

// Change is emitted after a successful navigation. Previous is nil on the
// first navigation.
type Change struct {
	Path     string
	Current  *Route
	Previous *Route
}

// Router holds the route table and the current location. It is driven from
// the UI loop and is not safe for concurrent use.
type Router struct {
	routes    []Route
	otherwise string
	logger    zerolog.Logger

	current     *Route
	currentPath string
	listeners   []func(Change)
}

// New creates a router. Routes are matched in order, first match wins.
// otherwise is the path used when nothing matches; empty disables the
// fallback.
func New(routes []Route, otherwise string) *Router {
	return &Router{
		routes:    routes,
		otherwise: otherwise,
		logger:    log.With().Str("cmp", "router").Logger(),
	}
}

// OnChange registers a listener called after every successful navigation.
func (r *Router) OnChange(fn func(Change)) {
	r.listeners = append(r.listeners, fn)
}

// Resolve returns the route matching p.
func (r *Router) Resolve(p string) (*Route, error) {
	p = Normalize(p)
	for i := range r.routes {
		ok, err := doublestar.Match(r.routes[i].Pattern, p)
		if err != nil {
			return nil, fmt.Errorf("match route %q: %w", r.routes[i].Pattern, err)
		}
		if ok {
			return &r.routes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoRoute, p)
}

// Path navigates to p. Navigating to the current path does nothing. An
// unknown path redirects to the fallback path once.
func (r *Router) Path(p string) {
	r.navigate(Normalize(p), true)
}

func (r *Router) navigate(p string, allowRedirect bool) {
	if p == r.currentPath && r.current != nil {
		return
	}

	next, err := r.Resolve(p)
	if err != nil {
		if allowRedirect && r.otherwise != "" && Normalize(r.otherwise) != p {
			r.logger.Debug().Str("path", p).Str("redirect", r.otherwise).Msg("no route, redirecting")
			r.navigate(Normalize(r.otherwise), false)
			return
		}
		r.logger.Warn().Err(err).Str("path", p).Msg("navigation failed")
		return
	}

	change := Change{Path: p, Current: next, Previous: r.current}
	r.current = next
	r.currentPath = p

	r.logger.Debug().Str("path", p).Str("pattern", next.Pattern).Msg("route changed")

	for _, fn := range r.listeners {
		fn(change)
	}
}

// Current returns the active route, nil before the first navigation.
func (r *Router) Current() *Route {
	return r.current
}

// CurrentPath returns the active path.
func (r *Router) CurrentPath() string {
	return r.currentPath
}

// Normalize cleans p and makes it absolute.
func Normalize(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
