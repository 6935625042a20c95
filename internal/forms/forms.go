package forms

import (
	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

// DateLayout is the date format accepted by forms and the backend.
const DateLayout = "2006-01-02"

// LoginForm is the sign-in form. Role is the role the user picked.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

// RegisterForm creates a customer account.
type RegisterForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ProductForm adds a policy product to the catalog.
type ProductForm struct {
	Code        string  `json:"code" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Premium     float64 `json:"premium" validate:"required,min=1"`
	TermMonths  int     `json:"termMonths" validate:"required,min=1"`
}

// Product returns the catalog entry described by the form.
func (f ProductForm) Product() domain.PolicyProduct {
	return domain.PolicyProduct{
		Code:        f.Code,
		Title:       f.Title,
		Description: f.Description,
		Premium:     f.Premium,
		TermMonths:  f.TermMonths,
	}
}

// PurchaseForm buys a policy product.
type PurchaseForm struct {
	StartDate       string `json:"startDate" validate:"required,datetime=2006-01-02"`
	TermMonths      int    `json:"termMonths" validate:"required,min=1"`
	NomineeName     string `json:"nomineeName" validate:"required"`
	NomineeRelation string `json:"nomineeRelation" validate:"required"`
}

// Request converts the form to a purchase request.
func (f PurchaseForm) Request() client.PurchasePolicyRequest {
	return client.PurchasePolicyRequest{
		StartDate:  f.StartDate,
		TermMonths: f.TermMonths,
		Nominee:    &domain.Nominee{Name: f.NomineeName, Relation: f.NomineeRelation},
	}
}

// ClaimForm files a claim against one of the user's policies.
type ClaimForm struct {
	PolicyID     string  `json:"policyId" validate:"required"`
	IncidentDate string  `json:"incidentDate" validate:"required,datetime=2006-01-02"`
	Description  string  `json:"description" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,min=1"`
}

// Request converts the form to a claim submission.
func (f ClaimForm) Request() client.SubmitClaimRequest {
	return client.SubmitClaimRequest{
		PolicyID:     f.PolicyID,
		IncidentDate: f.IncidentDate,
		Description:  f.Description,
		Amount:       f.Amount,
	}
}

// PaymentForm records a payment.
type PaymentForm struct {
	PolicyID  string  `json:"policyId" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,min=1"`
	Method    string  `json:"method" validate:"required"`
	Reference string  `json:"reference" validate:"required"`
}

// Request converts the form to a payment record request.
func (f PaymentForm) Request() client.RecordPaymentRequest {
	return client.RecordPaymentRequest{
		PolicyID:  f.PolicyID,
		Amount:    f.Amount,
		Method:    f.Method,
		Reference: f.Reference,
	}
}

// AgentForm creates an agent account.
type AgentForm struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Request converts the form to an agent creation request.
func (f AgentForm) Request() client.CreateAgentRequest {
	return client.CreateAgentRequest{Name: f.Name, Email: f.Email, Password: f.Password, Role: domain.RoleAgent}
}

// ClaimDecisionForm approves or rejects a claim.
type ClaimDecisionForm struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED PENDING"`
	Notes  string `json:"notes"`
}

// Request converts the form to a status update.
func (f ClaimDecisionForm) Request() client.UpdateClaimStatusRequest {
	return client.UpdateClaimStatusRequest{Status: f.Status, Notes: f.Notes}
}
