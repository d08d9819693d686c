// Package guard implements the route guard for protected dashboard screens.
// The guard is a pure render-time predicate over session state: no caching,
// no async work, no side effects beyond the login redirect. It must be
// evaluated behind the silent refresh gate so it always sees the
// post-refresh session.
package guard

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/samir7888/hospital-cms-client/session"
)

// publicRoutes can be reached without a session.
var publicRoutes = map[string]struct{}{
	session.RootRoute:           {},
	session.LoginRoute:          {},
	session.ForgotPasswordRoute: {},
}

// Guard redirects unauthenticated navigation to the login screen.
type Guard struct {
	store *session.Store
	nav   session.Navigator
}

// New creates a guard over the session store. nav receives the login
// redirect on denied navigation.
func New(store *session.Store, nav session.Navigator) (*Guard, error) {
	if store == nil {
		return nil, errors.New("[guard.New] session store is required")
	}
	if nav == nil {
		return nil, errors.New("[guard.New] navigator is required")
	}
	return &Guard{store: store, nav: nav}, nil
}

// IsPublic reports whether route is reachable without authentication.
func IsPublic(route string) bool {
	if _, ok := publicRoutes[route]; ok {
		return true
	}
	// Reset links carry the token as a path segment.
	return strings.HasPrefix(route, session.ResetPasswordRoute+"/")
}

// Allow reports whether the current session may render route.
func (g *Guard) Allow(route string) bool {
	if IsPublic(route) {
		return true
	}
	return g.store.User() != nil
}

// Check evaluates route and redirects (replace, not push) to the login
// screen when access is denied. Returns whether the route may render.
func (g *Guard) Check(route string) bool {
	if g.Allow(route) {
		return true
	}
	g.nav.Replace(session.LoginRoute)
	return false
}
