package apitest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/insurely/insurely/pkg/domain"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid registration"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]any{"error": map[string]string{"message": "Email already registered"}})
		return
	}
	u := s.addUserLocked(req.Name, req.Email, req.Password, domain.RoleCustomer)
	s.auditLocked("REGISTER", u)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Registered", "user": u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[req.Email]
	if !ok || acct.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	tok := s.issueLocked(req.Email)
	s.auditLocked("LOGIN", acct.user)
	writeJSON(w, http.StatusOK, map[string]any{"token": tok, "user": acct.user})
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request, me *account) {
	writeJSON(w, http.StatusOK, me.user)
}

func (s *Server) handleListProducts(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.products))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.productLocked(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Policy not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request, me *account) {
	var p domain.PolicyProduct
	if err := decode(r, &p); err != nil || p.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid policy product"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	s.products = append(s.products, p)
	s.auditLocked("CREATE_POLICY", me.user)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request, me *account) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.auditLocked("DELETE_POLICY", me.user)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Policy deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Policy not found"})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request, me *account) {
	var req struct {
		StartDate  string          `json:"startDate"`
		TermMonths int             `json:"termMonths"`
		Nominee    *domain.Nominee `json:"nominee"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid purchase"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.productLocked(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Policy not found"})
		return
	}
	start := time.Now().UTC()
	if req.StartDate != "" {
		if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			start = t
		}
	}
	term := req.TermMonths
	if term == 0 {
		term = p.TermMonths
	}
	up := domain.UserPolicy{
		ID:            s.nextID(),
		UserID:        me.user.ID,
		PolicyProduct: p,
		StartDate:     start,
		EndDate:       start.AddDate(0, term, 0),
		PremiumPaid:   p.Premium,
		Status:        domain.PolicyActive,
		Nominee:       req.Nominee,
		CreatedAt:     time.Now().UTC(),
	}
	up.UpdatedAt = up.CreatedAt
	s.policies = append(s.policies, up)
	s.auditLocked("PURCHASE_POLICY", me.user)
	writeJSON(w, http.StatusCreated, up)
}

func (s *Server) handleMyPolicies(w http.ResponseWriter, _ *http.Request, me *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.UserPolicy{}
	for _, p := range s.policies {
		if p.UserID == me.user.ID {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCancelPolicy(w http.ResponseWriter, r *http.Request, me *account) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.policies {
		p := &s.policies[i]
		if p.ID != id || p.UserID != me.user.ID {
			continue
		}
		if p.Status != domain.PolicyActive {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Policy is not active"})
			return
		}
		p.Status = domain.PolicyCancelled
		p.UpdatedAt = time.Now().UTC()
		writeJSON(w, http.StatusOK, p)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Policy not found"})
}

func (s *Server) handleSubmitClaim(w http.ResponseWriter, r *http.Request, me *account) {
	var req struct {
		PolicyID     string  `json:"policyId"`
		IncidentDate string  `json:"incidentDate"`
		Description  string  `json:"description"`
		Amount       float64 `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid claim"})
		return
	}
	incident, err := time.Parse("2006-01-02", req.IncidentDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid incident date"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := false
	for _, p := range s.policies {
		if p.ID == req.PolicyID && p.UserID == me.user.ID && p.Status == domain.PolicyActive {
			owned = true
			break
		}
	}
	if !owned {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Policy not found or not active"})
		return
	}
	c := domain.Claim{
		ID:            s.nextID(),
		UserID:        me.user.ID,
		UserPolicyID:  req.PolicyID,
		IncidentDate:  incident,
		Description:   req.Description,
		AmountClaimed: req.Amount,
		Status:        domain.ClaimPending,
		CreatedAt:     time.Now().UTC(),
	}
	c.UpdatedAt = c.CreatedAt
	s.claims = append(s.claims, c)
	s.auditLocked("SUBMIT_CLAIM", me.user)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListClaims(w http.ResponseWriter, _ *http.Request, me *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	staff := me.user.HasRole(domain.RoleAdmin, domain.RoleAgent)
	out := []domain.Claim{}
	for _, c := range s.claims {
		if staff || c.UserID == me.user.ID {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetClaim(w http.ResponseWriter, r *http.Request, me *account) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	staff := me.user.HasRole(domain.RoleAdmin, domain.RoleAgent)
	for _, c := range s.claims {
		if c.ID == id && (staff || c.UserID == me.user.ID) {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Claim not found"})
}

func (s *Server) handleClaimStatus(w http.ResponseWriter, r *http.Request, me *account) {
	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := decode(r, &req); err != nil || !domain.ValidClaimStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid status"})
		return
	}
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.claims {
		c := &s.claims[i]
		if c.ID != id {
			continue
		}
		c.Status = req.Status
		c.DecisionNotes = req.Notes
		c.DecidedByAgentID = me.user.ID
		c.UpdatedAt = time.Now().UTC()
		s.auditLocked("UPDATE_CLAIM", me.user)
		writeJSON(w, http.StatusOK, c)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Claim not found"})
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request, me *account) {
	var req struct {
		PolicyID  string  `json:"policyId"`
		Amount    float64 `json:"amount"`
		Method    string  `json:"method"`
		Reference string  `json:"reference"`
	}
	if err := decode(r, &req); err != nil || req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid payment"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Payment{
		ID:           s.nextID(),
		UserID:       me.user.ID,
		UserPolicyID: req.PolicyID,
		Amount:       req.Amount,
		Method:       req.Method,
		Reference:    req.Reference,
		CreatedAt:    time.Now().UTC(),
	}
	p.UpdatedAt = p.CreatedAt
	s.payments = append(s.payments, p)
	s.auditLocked("RECORD_PAYMENT", me.user)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleMyPayments(w http.ResponseWriter, _ *http.Request, me *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Payment{}
	for _, p := range s.payments {
		if p.UserID == me.user.ID {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := domain.AdminSummary{
		Users:         len(s.accounts),
		PoliciesSold:  len(s.policies),
		ClaimsPending: domain.CountPending(s.claims),
		TotalPayments: domain.TotalAmount(s.payments),
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleAudit(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.audit))
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request, _ *account) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.BasicUser{}
	for _, a := range s.accounts {
		if q == "" || strings.Contains(strings.ToLower(a.user.Name), q) || strings.Contains(strings.ToLower(a.user.Email), q) {
			out = append(out, a.user)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.agentsLocked())
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request, me *account) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decode(r, &req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid agent"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered"})
		return
	}
	role := req.Role
	if role == "" {
		role = domain.RoleAgent
	}
	u := s.addUserLocked(req.Name, req.Email, req.Password, role)
	s.auditLocked("CREATE_AGENT", me.user)
	writeJSON(w, http.StatusCreated, domain.Agent{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request, me *account) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := decode(r, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "userId is required"})
		return
	}
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.ID == id && a.user.Role == domain.RoleAgent {
			a.assigned = append(a.assigned, req.UserID)
			s.auditLocked("ASSIGN_AGENT", me.user)
			writeJSON(w, http.StatusOK, map[string]string{"message": "User assigned"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Agent not found"})
}

func (s *Server) handleAssignedUsers(w http.ResponseWriter, _ *http.Request, me *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.BasicUser{}
	for _, id := range me.assigned {
		for _, a := range s.accounts {
			if a.user.ID == id {
				out = append(out, a.user)
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAssignedClaims(w http.ResponseWriter, _ *http.Request, me *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Claim{}
	for _, c := range s.claims {
		for _, id := range me.assigned {
			if c.UserID == id {
				out = append(out, c)
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) productLocked(id string) (domain.PolicyProduct, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.PolicyProduct{}, false
}

func (s *Server) agentsLocked() []domain.Agent {
	out := []domain.Agent{}
	for _, a := range s.accounts {
		if a.user.Role == domain.RoleAgent {
			out = append(out, domain.Agent{ID: a.user.ID, Name: a.user.Name, Email: a.user.Email, Role: a.user.Role, AssignedUsers: a.assigned})
		}
	}
	return out
}

func (s *Server) auditLocked(action string, u domain.User) {
	name := u.Name
	s.audit = append(s.audit, domain.AuditLog{
		ID:        s.nextID(),
		Action:    action,
		UserID:    u.ID,
		UserName:  &name,
		Timestamp: time.Now().UTC(),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
