package nav

import (
	"errors"
	"fmt"
	"strings"

	"github.com/insurely/insurely/pkg/domain"
)

// Paths of the application screens.
const (
	PathHome         = "/home"
	PathLogin        = "/login"
	PathRegister     = "/register"
	PathDashboard    = "/dashboard"
	PathPolicies     = "/policies"
	PathPolicyDetail = "/policies/:id"
	PathMyPolicies   = "/user/policies"
	PathClaims       = "/claims"
	PathPayments     = "/payments"
	PathAdmin        = "/admin"
	PathAdminClaims  = "/admin/claims"
	PathAdminAgents  = "/admin/agents"
	PathAdminAudit   = "/admin/audit"
	PathAdminSummary = "/admin/summary"
	PathAgent        = "/agent"
)

const maxRedirects = 8

// ErrRedirectLoop is returned when guards keep redirecting.
var ErrRedirectLoop = errors.New("nav: too many redirects")

// Route is one entry in the route table.
type Route struct {
	// Pattern is the path, with ":name" segments matching any value.
	Pattern string
	// RedirectTo, when set, makes the route an unconditional alias.
	RedirectTo string
	Guards     []Guard
}

// Params are the values bound to a pattern's ":name" segments.
type Params map[string]string

// Match is the destination reached by Navigate.
type Match struct {
	Route  Route
	Path   string
	Params Params
	// Redirected is true when the destination differs from the request.
	Redirected bool
}

// DefaultRoutes returns the application route table.
func DefaultRoutes() []Route {
	auth := []Guard{RequireAuth}
	admin := []Guard{RequireAuth, RequireRole(domain.RoleAdmin)}
	return []Route{
		{Pattern: "/", RedirectTo: PathHome},
		{Pattern: PathHome},
		{Pattern: PathLogin},
		{Pattern: PathRegister},
		{Pattern: PathDashboard, Guards: auth},
		{Pattern: PathPolicies, Guards: auth},
		{Pattern: PathMyPolicies, Guards: auth},
		{Pattern: PathPolicyDetail, Guards: auth},
		{Pattern: PathClaims, Guards: auth},
		{Pattern: PathPayments, Guards: auth},
		{Pattern: PathAdmin, Guards: admin},
		{Pattern: PathAdminClaims, Guards: admin},
		{Pattern: PathAdminAgents, Guards: admin},
		{Pattern: PathAdminAudit, Guards: admin},
		{Pattern: PathAdminSummary, Guards: admin},
		{Pattern: PathAgent, Guards: []Guard{RequireAuth, RequireRole(domain.RoleAgent)}},
	}
}

// Router resolves paths against a route table.
type Router struct {
	routes   []Route
	fallback string
}

// NewRouter returns a Router over routes. Unknown paths go to /home.
func NewRouter(routes []Route) *Router {
	return &Router{routes: routes, fallback: PathHome}
}

// Lookup finds the route matching path.
func (rt *Router) Lookup(path string) (Route, Params, bool) {
	path = clean(path)
	for _, r := range rt.routes {
		if params, ok := match(r.Pattern, path); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// Navigate resolves path for s, following aliases and guard redirects
// until a route admits the session. Guards are evaluated on every call.
func (rt *Router) Navigate(s SessionView, path string) (Match, error) {
	requested := clean(path)
	current := requested
	for range maxRedirects {
		r, params, ok := rt.Lookup(current)
		if !ok {
			current = rt.fallback
			continue
		}
		if r.RedirectTo != "" {
			current = r.RedirectTo
			continue
		}
		if d := Evaluate(s, r); !d.Allowed() {
			current = clean(d.Redirect)
			continue
		}
		return Match{Route: r, Path: current, Params: params, Redirected: current != requested}, nil
	}
	return Match{}, fmt.Errorf("navigate %s: %w", requested, ErrRedirectLoop)
}

// LandingFor returns where to go after login. The role the user selected on
// the login form takes precedence over the role the server reports.
func LandingFor(selectedRole, serverRole string) string {
	role := selectedRole
	if role == "" {
		role = serverRole
	}
	switch role {
	case domain.RoleAdmin:
		return PathAdmin
	case domain.RoleAgent:
		return PathClaims
	default:
		return PathDashboard
	}
}

// Build fills a pattern's ":name" segments from params.
func Build(pattern string, params Params) string {
	segs := strings.Split(pattern, "/")
	for i, seg := range segs {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			segs[i] = params[name]
		}
	}
	return strings.Join(segs, "/")
}

func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func match(pattern, path string) (Params, bool) {
	pp := strings.Split(pattern, "/")
	sp := strings.Split(path, "/")
	if len(pp) != len(sp) {
		return nil, false
	}
	var params Params
	for i := range pp {
		if name, ok := strings.CutPrefix(pp[i], ":"); ok {
			if sp[i] == "" {
				return nil, false
			}
			if params == nil {
				params = Params{}
			}
			params[name] = sp[i]
			continue
		}
		if pp[i] != sp[i] {
			return nil, false
		}
	}
	return params, true
}
