package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/insurely/insurely/internal/apitest"
	"github.com/insurely/insurely/pkg/domain"
)

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not authorized"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.User{ID: "u1", Name: "Ada", Role: "customer"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("test-token"))
	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if me.ID != "u1" || me.Role != "customer" {
		t.Errorf("GetMe() = %+v", me)
	}
}

func TestGetMe_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not authorized"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") || !strings.Contains(got, "client.GetMe") {
		t.Errorf("error = %q, want it to contain 'client.GetMe' and 'HTTP 401'", got)
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Error("IsStatus(401) = false")
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("[]")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil)
	if _, err := c.ListClaims(context.Background()); err != nil {
		t.Fatalf("ListClaims() error: %v", err)
	}
	if gotPath != "/claims" {
		t.Errorf("path = %q, want /claims", gotPath)
	}
}

func TestListUsersQuery(t *testing.T) {
	var gotURI []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = append(gotURI, r.URL.RequestURI())
		w.Write([]byte("[]")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("t"))
	c.ListUsers(context.Background(), "")           //nolint:errcheck
	c.ListUsers(context.Background(), "ann lee&co") //nolint:errcheck
	want := []string{"/admin/users", "/admin/users?q=ann+lee%26co"}
	for i := range want {
		if i >= len(gotURI) || gotURI[i] != want[i] {
			t.Fatalf("request URIs = %v, want %v", gotURI, want)
		}
	}
}

func TestCancelPolicySendsEmptyObject(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/policies/user/p1/cancel" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		body, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(domain.UserPolicy{ID: "p1", Status: domain.PolicyCancelled}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("t"))
	up, err := c.CancelPolicy(context.Background(), "p1")
	if err != nil {
		t.Fatalf("CancelPolicy() error: %v", err)
	}
	if up.Status != domain.PolicyCancelled {
		t.Errorf("Status = %q", up.Status)
	}
	if got := strings.TrimSpace(string(body)); got != "{}" {
		t.Errorf("body = %q, want {}", got)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second)              // slow server
		json.NewEncoder(w).Encode(domain.User{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	if _, err := c.GetMe(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestCustomerFlowAgainstBackend(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	product := srv.AddProduct(domain.PolicyProduct{Code: "HLT-1", Title: "Health Basic", Premium: 120, TermMonths: 12})

	ctx := context.Background()
	anon := New(srv.URL, nil)
	if _, err := anon.Register(ctx, RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	auth, err := anon.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "secret1", Role: "customer"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if auth.Token == "" || auth.User.Email != "ada@example.com" {
		t.Fatalf("Login() = %+v", auth)
	}

	c := New(srv.URL, StaticToken(auth.Token))
	products, err := c.ListPolicyProducts(ctx)
	if err != nil || len(products) != 1 {
		t.Fatalf("ListPolicyProducts() = %v, %v", products, err)
	}
	up, err := c.PurchasePolicy(ctx, product.ID, PurchasePolicyRequest{
		StartDate:  "2025-01-01",
		TermMonths: 6,
		Nominee:    &domain.Nominee{Name: "Bo", Relation: "spouse"},
	})
	if err != nil {
		t.Fatalf("PurchasePolicy() error: %v", err)
	}
	if up.PolicyProduct.Title != "Health Basic" || up.Status != domain.PolicyActive {
		t.Errorf("PurchasePolicy() = %+v", up)
	}

	claim, err := c.SubmitClaim(ctx, SubmitClaimRequest{PolicyID: up.ID, IncidentDate: "2025-02-03", Description: "broken arm", Amount: 300})
	if err != nil {
		t.Fatalf("SubmitClaim() error: %v", err)
	}
	if claim.Status != domain.ClaimPending || claim.AmountClaimed != 300 {
		t.Errorf("SubmitClaim() = %+v", claim)
	}

	if _, err := c.RecordPayment(ctx, RecordPaymentRequest{PolicyID: up.ID, Amount: 120, Method: domain.DefaultPaymentMethod, Reference: "REF-1"}); err != nil {
		t.Fatalf("RecordPayment() error: %v", err)
	}
	payments, err := c.ListMyPayments(ctx)
	if err != nil || len(payments) != 1 {
		t.Fatalf("ListMyPayments() = %v, %v", payments, err)
	}

	// Customers cannot reach admin endpoints.
	_, err = c.AdminSummary(ctx)
	if !IsStatus(err, http.StatusForbidden) {
		t.Errorf("AdminSummary() error = %v, want 403", err)
	}

	for _, call := range srv.Calls()[2:] {
		if call.Authorization != "Bearer "+auth.Token {
			t.Errorf("%s %s sent Authorization %q", call.Method, call.Path, call.Authorization)
		}
	}
}

func TestRegisterDuplicateSurfacesNestedMessage(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.AddUser("Ada", "ada@example.com", "secret1", domain.RoleCustomer)

	c := New(srv.URL, nil)
	_, err := c.Register(context.Background(), RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	if err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if got := UserMessage(err, "Registration failed"); got != "Email already registered" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestStaffFlowAgainstBackend(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.AddUser("Root", "root@example.com", "rootpw", domain.RoleAdmin)
	cust := srv.AddUser("Cy", "cy@example.com", "cypass", domain.RoleCustomer)

	ctx := context.Background()
	admin := New(srv.URL, StaticToken(srv.IssueToken("root@example.com")))

	agent, err := admin.CreateAgent(ctx, CreateAgentRequest{Name: "Ag", Email: "ag@example.com", Password: "agentpw"})
	if err != nil {
		t.Fatalf("CreateAgent() error: %v", err)
	}
	if agent.Role != domain.RoleAgent {
		t.Errorf("agent role = %q", agent.Role)
	}
	msg, err := admin.AssignAgent(ctx, agent.ID, cust.ID)
	if err != nil || msg.Message == "" {
		t.Fatalf("AssignAgent() = %v, %v", msg, err)
	}
	agents, err := admin.ListAgents(ctx)
	if err != nil || len(agents) != 1 || len(agents[0].AssignedUsers) != 1 {
		t.Fatalf("ListAgents() = %+v, %v", agents, err)
	}
	summary, err := admin.AdminSummary(ctx)
	if err != nil || summary.Users != 3 {
		t.Fatalf("AdminSummary() = %+v, %v", summary, err)
	}
	logs, err := admin.AuditLogs(ctx)
	if err != nil || len(logs) == 0 {
		t.Fatalf("AuditLogs() = %v, %v", logs, err)
	}

	agentClient := New(srv.URL, StaticToken(srv.IssueToken("ag@example.com")))
	users, err := agentClient.AssignedUsers(ctx)
	if err != nil || len(users) != 1 || users[0].ID != cust.ID {
		t.Fatalf("AssignedUsers() = %+v, %v", users, err)
	}
}
