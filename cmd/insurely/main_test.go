package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurely/insurely/internal/apitest"
	"github.com/insurely/insurely/internal/output"
	"github.com/insurely/insurely/pkg/domain"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// newBackend starts a fake backend and points the CLI at it with a fresh
// state directory.
func newBackend(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "1")
	t.Setenv("INSURELY_API_URL", srv.URL)
	t.Setenv("INSURELY_STATE_DIR", t.TempDir())
	return srv
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), append([]string{"--color", "never"}, args...), strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func login(t *testing.T, email, role string) {
	t.Helper()
	res := execute(t, "secret1\n", "login", "--email", email, "--password-stdin", "--role", role, "-q")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
}

func called(srv *apitest.Server, method, path string) bool {
	for _, c := range srv.Calls() {
		if c.Method == method && c.Path == path {
			return true
		}
	}
	return false
}

func TestLoginWhoamiLogout(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)

	res := execute(t, "", "login", "--email", "ada@example.com", "--password", "secret1", "--print-landing")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "/dashboard\n", res.stdout)

	res = execute(t, "", "whoami")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ada@example.com")
	assert.Contains(t, res.stdout, "role:    customer")

	res = execute(t, "", "whoami", "--verify")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.True(t, called(srv, "GET", "/auth/me"))

	res = execute(t, "", "logout")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)

	res = execute(t, "", "whoami")
	assert.Equal(t, output.ExitAuthRequired, res.code)
	assert.Contains(t, res.stderr, "not logged in")
}

func TestLoginLandingFollowsSelectedRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{domain.RoleAdmin, "/admin"},
		{domain.RoleAgent, "/claims"},
		{domain.RoleCustomer, "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			srv := newBackend(t)
			srv.AddUser("Sam", "sam@example.com", "secret1", tt.role)

			res := execute(t, "secret1\n", "login", "--email", "sam@example.com", "--password-stdin", "--role", tt.role, "--print-landing")
			require.Equal(t, output.ExitSuccess, res.code, res.stderr)
			assert.Equal(t, tt.want+"\n", res.stdout)
		})
	}
}

func TestLoginRejected(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)

	res := execute(t, "", "login", "--email", "ada@example.com", "--password", "wrong-one")
	assert.Equal(t, output.ExitAuthRequired, res.code)
	assert.Contains(t, res.stderr, "Invalid credentials")

	res = execute(t, "", "whoami")
	assert.Equal(t, output.ExitAuthRequired, res.code)
}

func TestRegisterSignsIn(t *testing.T) {
	newBackend(t)

	res := execute(t, "secret1\n", "register", "--name", "Grace", "--email", "grace@example.com", "--password-stdin")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Grace")

	res = execute(t, "", "whoami")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "grace@example.com")
}

func TestCommandsRequireLogin(t *testing.T) {
	srv := newBackend(t)

	for _, args := range [][]string{
		{"policies", "list"},
		{"claims", "list"},
		{"payments", "list"},
		{"admin", "summary"},
	} {
		res := execute(t, "", args...)
		assert.Equal(t, output.ExitAuthRequired, res.code, "%v", args)
	}
	assert.Empty(t, srv.Calls(), "no request should reach the backend")
}

func TestCustomerCannotRunStaffCommands(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)
	login(t, "ada@example.com", domain.RoleCustomer)

	for _, args := range [][]string{
		{"admin", "summary"},
		{"admin", "agents"},
		{"claims", "status", "c1", "APPROVED"},
		{"policies", "delete", "p1"},
		{"agent", "claims"},
	} {
		res := execute(t, "", args...)
		assert.Equal(t, output.ExitForbidden, res.code, "%v", args)
		assert.Contains(t, res.stderr, "permission denied", "%v", args)
	}
	assert.False(t, called(srv, "GET", "/admin/summary"))
	assert.False(t, called(srv, "DELETE", "/policies/p1"))
}

func TestUsageErrors(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)
	login(t, "ada@example.com", domain.RoleCustomer)

	tests := []struct {
		name string
		args []string
	}{
		{"missing argument", []string{"policies", "show"}},
		{"unknown flag", []string{"policies", "list", "--bogus"}},
		{"bad color mode", []string{"--color", "rainbow", "policies", "list"}},
		{"invalid claim", []string{"claims", "submit", "--policy", "p1", "--amount", "0", "--description", "x"}},
		{"invalid email", []string{"login", "--email", "nope", "--password", "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, "", tt.args...)
			assert.Equal(t, output.ExitUsageError, res.code, res.stderr)
		})
	}
	assert.False(t, called(srv, "POST", "/claims"))
}

func TestConfigError(t *testing.T) {
	newBackend(t)
	t.Setenv("INSURELY_LOGGING_LEVEL", "loud")

	res := execute(t, "", "policies", "list")
	assert.Equal(t, output.ExitConfigError, res.code)
	assert.Contains(t, res.stderr, "invalid configuration")
}

func TestVersionRunsWithoutConfig(t *testing.T) {
	newBackend(t)
	t.Setenv("INSURELY_LOGGING_LEVEL", "loud")

	res := execute(t, "", "version", "--short")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Equal(t, version+"\n", res.stdout)

	res = execute(t, "", "version", "--json")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Equal(t, version, info["version"])
}

func TestPoliciesListOutputs(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)
	p := srv.AddProduct(domain.PolicyProduct{Code: "HOME-1", Title: "Home cover", Premium: 120, TermMonths: 12})
	login(t, "ada@example.com", domain.RoleCustomer)

	res := execute(t, "", "policies", "list", "--json")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	var products []domain.PolicyProduct
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "HOME-1", products[0].Code)

	res = execute(t, "", "-q", "policies", "list")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Equal(t, p.ID+"\n", res.stdout)

	res = execute(t, "", "policies", "list")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Home cover")
	assert.Contains(t, res.stdout, "$120.00")
}

func TestClaimLifecycle(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)
	srv.AddUser("Root", "root@example.com", "secret1", domain.RoleAdmin)
	p := srv.AddProduct(domain.PolicyProduct{Code: "CAR-1", Title: "Car cover", Premium: 80, TermMonths: 6})
	login(t, "ada@example.com", domain.RoleCustomer)

	res := execute(t, "", "-q", "policies", "purchase", p.ID, "--nominee-name", "Sam", "--nominee-relation", "spouse")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	policyID := strings.TrimSpace(res.stdout)
	require.NotEmpty(t, policyID)

	res = execute(t, "", "-q", "claims", "submit", "--policy", policyID, "--amount", "250", "--description", "Dented door", "--date", "2026-01-02")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	claimID := strings.TrimSpace(res.stdout)

	res = execute(t, "", "-q", "payments", "record", "--policy", policyID, "--amount", "80")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "PAY-"), res.stdout)

	login(t, "root@example.com", domain.RoleAdmin)
	res = execute(t, "", "claims", "status", claimID, "approved", "--notes", "looks fine")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)

	claims := srv.Claims()
	require.Len(t, claims, 1)
	assert.Equal(t, domain.ClaimApproved, claims[0].Status)
	assert.Equal(t, "looks fine", claims[0].DecisionNotes)
	assert.True(t, called(srv, "PUT", "/claims/"+claimID+"/status"))
}

func TestWebPrintsScreenURL(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)
	t.Setenv("INSURELY_WEB_URL", "http://localhost:4200")
	login(t, "ada@example.com", domain.RoleCustomer)

	res := execute(t, "", "web", "/user/policies", "--print")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "http://localhost:4200/user/policies\n", res.stdout)

	res = execute(t, "", "web", "/admin", "--print")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "http://localhost:4200/dashboard\n", res.stdout)
}

func TestToCLIErrorMapsHTTPStatus(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)
	login(t, "ada@example.com", domain.RoleCustomer)

	srv.Fail("GET", "/policies", 500, `{"message":"database down"}`)
	res := execute(t, "", "policies", "list")
	assert.Equal(t, output.ExitGeneral, res.code)
	assert.Contains(t, res.stderr, "database down")

	srv.Fail("GET", "/policies", 401, `{"message":"Token expired"}`)
	res = execute(t, "", "policies", "list")
	assert.Equal(t, output.ExitAuthRequired, res.code)
}

func TestAgentDecidesAnyClaim(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)
	srv.AddUser("Bo", "bo@example.com", "secret1", domain.RoleAgent)
	p := srv.AddProduct(domain.PolicyProduct{Code: "HOME-1", Title: "Home cover", Premium: 40, TermMonths: 12})
	login(t, "ada@example.com", domain.RoleCustomer)

	res := execute(t, "", "-q", "policies", "purchase", p.ID, "--nominee-name", "Lee", "--nominee-relation", "child")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	policyID := strings.TrimSpace(res.stdout)
	res = execute(t, "", "-q", "claims", "submit", "--policy", policyID, "--amount", "90", "--description", "Broken window", "--date", "2026-03-04")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	claimID := strings.TrimSpace(res.stdout)

	login(t, "bo@example.com", domain.RoleAgent)
	res = execute(t, "", "claims", "status", claimID, "bogus")
	assert.Equal(t, output.ExitUsageError, res.code)
	assert.Contains(t, res.stderr, "  - status")
	assert.False(t, called(srv, "PUT", "/claims/"+claimID+"/status"))

	res = execute(t, "", "claims", "status", claimID, "rejected", "--notes", "not covered")
	require.Equal(t, output.ExitSuccess, res.code, res.stderr)
	claims := srv.Claims()
	require.Len(t, claims, 1)
	assert.Equal(t, domain.ClaimRejected, claims[0].Status)
	assert.True(t, called(srv, "PUT", "/claims/"+claimID+"/status"))
}

func TestTUILogsToFileNotStderr(t *testing.T) {
	srv := newBackend(t)
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)
	login(t, "ada@example.com", domain.RoleCustomer)

	in, keys := io.Pipe()
	go func() {
		time.Sleep(800 * time.Millisecond)
		keys.Write([]byte("q"))
		keys.Close()
	}()
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"--color", "never", "-v", "tui"}, in, &out, &errOut)
	require.Equal(t, output.ExitSuccess, code, errOut.String())
	assert.Empty(t, errOut.String())

	logged, err := os.ReadFile(filepath.Join(os.Getenv("INSURELY_STATE_DIR"), "insurely.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "api request")
}
