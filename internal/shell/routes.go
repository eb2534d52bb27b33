// Package shell is the authenticated navigation core: a static route
// table, the session-gated guard, the lazy screen loader, and the
// navigator that composes them.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/birddeck/birddeck/internal/screens"
)

// Route paths. No other paths exist.
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathSignup    = "/signup"
	PathDashboard = "/dashboard"
	PathAccounts  = "/accounts"
	PathComposer  = "/tweet-composer"
	PathGenerator = "/ai-tweet-generator"
	PathSchedule  = "/schedule-manager"
	PathAnalytics = "/analytics"
	PathSettings  = "/settings"
)

// ErrRouteNotFound is returned when no route entry matches a path.
var ErrRouteNotFound = errors.New("route not found")

// Access is a route's access class.
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
)

// Route is a static mapping from a path to either a screen or a
// redirect target. Exactly one of Screen and RedirectTo is set.
type Route struct {
	Path       string
	Access     Access
	Screen     screens.Factory
	RedirectTo string
}

// Table is the immutable route table, fixed at startup.
type Table struct {
	routes map[string]Route
}

// NewTable builds a route table, rejecting duplicate or malformed
// entries.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{routes: make(map[string]Route, len(routes))}

	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("route path %q must start with /", r.Path)
		}
		if _, exists := t.routes[r.Path]; exists {
			return nil, fmt.Errorf("duplicate route for %q", r.Path)
		}
		if (r.Screen == nil) == (r.RedirectTo == "") {
			return nil, fmt.Errorf("route %q must have exactly one of screen or redirect", r.Path)
		}
		t.routes[r.Path] = r
	}

	return t, nil
}

// Resolve finds the route entry for a path. Returns ErrRouteNotFound
// when the path is not defined.
func (t *Table) Resolve(path string) (Route, error) {
	route, ok := t.routes[path]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
	}
	return route, nil
}
