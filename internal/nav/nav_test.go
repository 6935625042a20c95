package nav

import (
	"errors"
	"testing"

	"github.com/insurely/insurely/pkg/domain"
)

type fakeSession struct {
	token string
	user  *domain.User
}

func (f *fakeSession) IsAuthenticated() bool         { return f.token != "" }
func (f *fakeSession) CurrentIdentity() *domain.User { return f.user }

func signedIn(role string) *fakeSession {
	return &fakeSession{token: "t", user: &domain.User{ID: "u", Role: role}}
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name string
		s    *fakeSession
		want Decision
	}{
		{"signed out", &fakeSession{}, RedirectTo(PathLogin)},
		{"token without identity", &fakeSession{token: "t"}, Continue()},
		{"signed in", signedIn("customer"), Continue()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequireAuth(tt.s, Route{}); got != tt.want {
				t.Errorf("RequireAuth() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequireAuthIsFreshEachTime(t *testing.T) {
	s := &fakeSession{}
	if RequireAuth(s, Route{}).Allowed() {
		t.Fatal("signed out session allowed")
	}
	s.token = "t"
	if !RequireAuth(s, Route{}).Allowed() {
		t.Error("guard did not observe sign-in")
	}
	s.token = ""
	if RequireAuth(s, Route{}).Allowed() {
		t.Error("guard did not observe sign-out")
	}
}

func TestRequireRoleAdmin(t *testing.T) {
	guard := RequireRole("admin")
	tests := []struct {
		name    string
		s       *fakeSession
		allowed bool
	}{
		{"admin", signedIn("admin"), true},
		{"agent", signedIn("agent"), false},
		{"customer", signedIn("customer"), false},
		{"upper-case admin", signedIn("ADMIN"), false},
		{"no identity", &fakeSession{token: "t"}, false},
		{"signed out", &fakeSession{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := guard(tt.s, Route{})
			if d.Allowed() != tt.allowed {
				t.Errorf("allowed = %v, want %v", d.Allowed(), tt.allowed)
			}
			if !tt.allowed && d.Redirect != PathDashboard {
				t.Errorf("redirect = %q, want %q", d.Redirect, PathDashboard)
			}
		})
	}
}

func TestRequireRoleMultiple(t *testing.T) {
	guard := RequireRole("admin", "agent")
	if !guard(signedIn("agent"), Route{}).Allowed() {
		t.Error("agent should be allowed")
	}
	if guard(signedIn("customer"), Route{}).Allowed() {
		t.Error("customer should be refused")
	}
}

func TestEvaluateShortCircuits(t *testing.T) {
	called := false
	r := Route{Guards: []Guard{
		RequireAuth,
		func(SessionView, Route) Decision { called = true; return Continue() },
	}}
	if d := Evaluate(&fakeSession{}, r); d.Redirect != PathLogin {
		t.Errorf("Evaluate() = %+v, want redirect to login", d)
	}
	if called {
		t.Error("second guard ran after the first refused")
	}
}

func TestNavigate(t *testing.T) {
	rt := NewRouter(DefaultRoutes())
	tests := []struct {
		name     string
		s        *fakeSession
		path     string
		wantPath string
		redirect bool
	}{
		{"root goes home", &fakeSession{}, "", PathHome, true},
		{"unknown goes home", signedIn("customer"), "/nowhere", PathHome, true},
		{"public page", &fakeSession{}, "/register", PathRegister, false},
		{"protected while signed out", &fakeSession{}, "/claims", PathLogin, true},
		{"protected while signed in", signedIn("customer"), "/claims", PathClaims, false},
		{"admin as customer", signedIn("customer"), "/admin/audit", PathDashboard, true},
		{"admin signed out", &fakeSession{}, "/admin", PathLogin, true},
		{"admin as admin", signedIn("admin"), "/admin/agents", PathAdminAgents, false},
		{"agent page as agent", signedIn("agent"), "/agent", PathAgent, false},
		{"agent page as admin", signedIn("admin"), "/agent", PathDashboard, true},
		{"trailing slash", signedIn("customer"), "/payments/", PathPayments, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := rt.Navigate(tt.s, tt.path)
			if err != nil {
				t.Fatalf("Navigate() error: %v", err)
			}
			if m.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", m.Path, tt.wantPath)
			}
			if m.Redirected != tt.redirect {
				t.Errorf("Redirected = %v, want %v", m.Redirected, tt.redirect)
			}
		})
	}
}

func TestNavigateParams(t *testing.T) {
	rt := NewRouter(DefaultRoutes())
	m, err := rt.Navigate(signedIn("customer"), "/policies/abc123")
	if err != nil {
		t.Fatal(err)
	}
	if m.Route.Pattern != PathPolicyDetail || m.Params["id"] != "abc123" {
		t.Errorf("Navigate() = %+v", m)
	}
	if Build(PathPolicyDetail, m.Params) != "/policies/abc123" {
		t.Errorf("Build() = %q", Build(PathPolicyDetail, m.Params))
	}
}

func TestNavigateRedirectLoop(t *testing.T) {
	rt := NewRouter([]Route{
		{Pattern: "/a", Guards: []Guard{func(SessionView, Route) Decision { return RedirectTo("/b") }}},
		{Pattern: "/b", Guards: []Guard{func(SessionView, Route) Decision { return RedirectTo("/a") }}},
	})
	if _, err := rt.Navigate(&fakeSession{}, "/a"); !errors.Is(err, ErrRedirectLoop) {
		t.Errorf("Navigate() error = %v, want ErrRedirectLoop", err)
	}
}

func TestLandingFor(t *testing.T) {
	tests := []struct {
		selected, server, want string
	}{
		{"agent", "AGENT", PathClaims},
		{"admin", "customer", PathAdmin},
		{"customer", "admin", PathDashboard},
		{"", "admin", PathAdmin},
		{"", "agent", PathClaims},
		{"", "", PathDashboard},
		{"", "AGENT", PathDashboard},
	}
	for _, tt := range tests {
		if got := LandingFor(tt.selected, tt.server); got != tt.want {
			t.Errorf("LandingFor(%q, %q) = %q, want %q", tt.selected, tt.server, got, tt.want)
		}
	}
}
