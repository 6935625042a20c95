// Package apitest runs an in-memory insurance backend for tests. It speaks
// the same routes and JSON shapes as the real API, with just enough
// behaviour (credentials, ownership, roles) to exercise client flows.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/insurely/insurely/pkg/domain"
)

// Call is one request received by the server.
type Call struct {
	Method        string
	Path          string
	Authorization string
	Body          string
}

type account struct {
	user     domain.User
	password string
	assigned []string
}

type failure struct {
	status int
	body   string
}

// Server is a fake backend. All exported methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	seq      int
	accounts map[string]*account // by email
	tokens   map[string]string   // token -> email
	products []domain.PolicyProduct
	policies []domain.UserPolicy
	claims   []domain.Claim
	payments []domain.Payment
	audit    []domain.AuditLog
	calls    []Call
	failures map[string]failure // "METHOD /path" -> forced response
}

// New starts a fake backend. Callers must Close it.
func New() *Server {
	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		failures: make(map[string]failure),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// AddUser creates an account and returns its user record.
func (s *Server) AddUser(name, email, password, role string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, role)
}

func (s *Server) addUserLocked(name, email, password, role string) domain.User {
	u := domain.User{ID: s.nextID(), Name: name, Email: email, Role: role}
	s.accounts[email] = &account{user: u, password: password}
	return u
}

// AddProduct adds a policy product to the catalog.
func (s *Server) AddProduct(p domain.PolicyProduct) domain.PolicyProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	s.products = append(s.products, p)
	return p
}

// IssueToken returns a valid token for an existing account.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(email)
}

func (s *Server) issueLocked(email string) string {
	tok := "tok-" + s.nextID()
	s.tokens[tok] = email
	return tok
}

// Fail forces every request matching method and path to answer with
// status and body until Recover is called.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Recover clears a failure installed by Fail.
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

// Calls returns the requests received so far, in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Claims returns a snapshot of the stored claims.
func (s *Server) Claims() []domain.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Claim(nil), s.claims...)
}

func (s *Server) nextID() string {
	s.seq++
	return fmt.Sprintf("%024x", s.seq)
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.authed(s.handleMe)).Methods(http.MethodGet)

	r.HandleFunc("/policies", s.authed(s.handleListProducts)).Methods(http.MethodGet)
	r.HandleFunc("/policies", s.role(s.handleCreateProduct, domain.RoleAdmin)).Methods(http.MethodPost)
	r.HandleFunc("/policies/user/me", s.authed(s.handleMyPolicies)).Methods(http.MethodGet)
	r.HandleFunc("/policies/user/{id}/cancel", s.authed(s.handleCancelPolicy)).Methods(http.MethodPut)
	r.HandleFunc("/policies/{id}", s.authed(s.handleGetProduct)).Methods(http.MethodGet)
	r.HandleFunc("/policies/{id}", s.role(s.handleDeleteProduct, domain.RoleAdmin)).Methods(http.MethodDelete)
	r.HandleFunc("/policies/{id}/purchase", s.authed(s.handlePurchase)).Methods(http.MethodPost)

	r.HandleFunc("/claims", s.authed(s.handleSubmitClaim)).Methods(http.MethodPost)
	r.HandleFunc("/claims", s.authed(s.handleListClaims)).Methods(http.MethodGet)
	r.HandleFunc("/claims/{id}", s.authed(s.handleGetClaim)).Methods(http.MethodGet)
	r.HandleFunc("/claims/{id}/status", s.role(s.handleClaimStatus, domain.RoleAdmin, domain.RoleAgent)).Methods(http.MethodPut)

	r.HandleFunc("/payments", s.authed(s.handleRecordPayment)).Methods(http.MethodPost)
	r.HandleFunc("/payments/user", s.authed(s.handleMyPayments)).Methods(http.MethodGet)

	r.HandleFunc("/admin/summary", s.role(s.handleSummary, domain.RoleAdmin)).Methods(http.MethodGet)
	r.HandleFunc("/admin/audit", s.role(s.handleAudit, domain.RoleAdmin)).Methods(http.MethodGet)
	r.HandleFunc("/admin/users", s.role(s.handleUsers, domain.RoleAdmin)).Methods(http.MethodGet)
	r.HandleFunc("/admin/agents", s.role(s.handleListAgents, domain.RoleAdmin)).Methods(http.MethodGet)
	r.HandleFunc("/admin/agents", s.role(s.handleCreateAgent, domain.RoleAdmin)).Methods(http.MethodPost)
	r.HandleFunc("/admin/agents/{id}/assign", s.role(s.handleAssign, domain.RoleAdmin)).Methods(http.MethodPut)

	r.HandleFunc("/agent/assigned-users", s.role(s.handleAssignedUsers, domain.RoleAgent)).Methods(http.MethodGet)
	r.HandleFunc("/agent/claims", s.role(s.handleAssignedClaims, domain.RoleAgent)).Methods(http.MethodGet)
	r.HandleFunc("/agent/claims/{id}", s.role(s.handleClaimStatus, domain.RoleAgent)).Methods(http.MethodPut)
	return r
}

// record logs the call and applies any forced failure.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(io.LimitReader(r.Body, 1<<20)) //nolint:errcheck // fake server
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:        r.Method,
			Path:          r.URL.RequestURI(),
			Authorization: r.Header.Get("Authorization"),
			Body:          string(body),
		})
		f, failed := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if failed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			fmt.Fprint(w, f.body) //nolint:errcheck
			return
		}
		next.ServeHTTP(w, r)
	})
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, me *account)

// authed rejects requests without a known bearer token.
func (s *Server) authed(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		email, ok := s.tokens[tok]
		me := s.accounts[email]
		s.mu.Unlock()
		if !ok || me == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
			return
		}
		h(w, r, me)
	}
}

// role additionally requires one of roles.
func (s *Server) role(h handlerFunc, roles ...string) http.HandlerFunc {
	return s.authed(func(w http.ResponseWriter, r *http.Request, me *account) {
		if !me.user.HasRole(roles...) {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
			return
		}
		h(w, r, me)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
