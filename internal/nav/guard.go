// Package nav decides which screens a user may open. Each route carries an
// ordered list of guards; the first guard that refuses redirects the user
// elsewhere.
package nav

import (
	"slices"

	"github.com/insurely/insurely/pkg/domain"
)

// SessionView is the read-only session state guards consult.
type SessionView interface {
	IsAuthenticated() bool
	CurrentIdentity() *domain.User
}

// Decision is the outcome of a guard: continue, or redirect to a path.
type Decision struct {
	Redirect string
}

// Continue lets navigation proceed.
func Continue() Decision { return Decision{} }

// RedirectTo sends navigation to path instead.
func RedirectTo(path string) Decision { return Decision{Redirect: path} }

// Allowed reports whether the decision lets navigation proceed.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// Guard inspects the session for a navigation to r.
type Guard func(s SessionView, r Route) Decision

// RequireAuth allows navigation only when a token is held.
func RequireAuth(s SessionView, _ Route) Decision {
	if s.IsAuthenticated() {
		return Continue()
	}
	return RedirectTo(PathLogin)
}

// RequireRole allows navigation only when the identity's role is one of
// roles. Matching is exact and case-sensitive.
func RequireRole(roles ...string) Guard {
	allowed := slices.Clone(roles)
	return func(s SessionView, _ Route) Decision {
		if s.CurrentIdentity().HasRole(allowed...) {
			return Continue()
		}
		return RedirectTo(PathDashboard)
	}
}

// Evaluate runs r's guards in order and returns the first redirect, or
// Continue when every guard allows.
func Evaluate(s SessionView, r Route) Decision {
	for _, g := range r.Guards {
		if d := g(s, r); !d.Allowed() {
			return d
		}
	}
	return Continue()
}
