package shell

import (
	"github.com/birddeck/birddeck/internal/session"
)

// Decision is the guard's verdict for a navigation.
type Decision int

const (
	// DecisionRender shows the route's screen.
	DecisionRender Decision = iota

	// DecisionLoading shows the neutral placeholder. Used while the
	// session status is still unknown, so an authenticated user never
	// sees a flash redirect to login on reload.
	DecisionLoading

	// DecisionRedirect navigates to the returned target instead.
	DecisionRedirect
)

// Evaluate is the route guard: a pure function of the session status
// and the route's access class. It has no side effects.
func Evaluate(status session.Status, route Route) (Decision, string) {
	if route.Access == AccessPublic {
		return DecisionRender, ""
	}

	switch status {
	case session.StatusAuthenticated:
		return DecisionRender, ""
	case session.StatusUnknown:
		return DecisionLoading, ""
	default:
		return DecisionRedirect, PathLogin
	}
}
