package forms

import (
	"errors"
	"strings"
	"testing"
)

func TestLoginForm(t *testing.T) {
	tests := []struct {
		name    string
		form    LoginForm
		invalid []string
	}{
		{"valid", LoginForm{Email: "a@b.com", Password: "secret", Role: "agent"}, nil},
		{"empty", LoginForm{}, []string{"email", "password", "role"}},
		{"bad email", LoginForm{Email: "nope", Password: "secret", Role: "customer"}, []string{"email"}},
		{"short password", LoginForm{Email: "a@b.com", Password: "123", Role: "customer"}, []string{"password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertInvalid(t, Validate(tt.form), tt.invalid)
		})
	}
}

func TestRegisterFormPasswordMismatch(t *testing.T) {
	f := RegisterForm{Name: "Ada", Email: "a@b.com", Password: "password123", ConfirmPassword: "different123"}
	err := Validate(f)
	assertInvalid(t, err, []string{"confirmPassword"})

	f.ConfirmPassword = f.Password
	assertInvalid(t, Validate(f), nil)
}

func TestClaimForm(t *testing.T) {
	valid := ClaimForm{PolicyID: "p1", IncidentDate: "2025-03-01", Description: "hail", Amount: 250}
	assertInvalid(t, Validate(valid), nil)

	bad := valid
	bad.IncidentDate = "01/03/2025"
	bad.Amount = 0.5
	assertInvalid(t, Validate(bad), []string{"incidentDate", "amount"})

	req := valid.Request()
	if req.PolicyID != "p1" || req.Amount != 250 || req.IncidentDate != "2025-03-01" {
		t.Errorf("Request() = %+v", req)
	}
}

func TestPurchaseFormRequest(t *testing.T) {
	f := PurchaseForm{StartDate: "2025-01-01", TermMonths: 12, NomineeName: "Bo", NomineeRelation: "son"}
	assertInvalid(t, Validate(f), nil)
	req := f.Request()
	if req.Nominee == nil || req.Nominee.Name != "Bo" || req.TermMonths != 12 {
		t.Errorf("Request() = %+v", req)
	}
	assertInvalid(t, Validate(PurchaseForm{StartDate: "2025-01-01"}), []string{"termMonths", "nomineeName", "nomineeRelation"})
}

func TestPaymentAndProductForms(t *testing.T) {
	assertInvalid(t, Validate(PaymentForm{PolicyID: "p", Amount: 10, Method: "SIMULATED", Reference: "r"}), nil)
	assertInvalid(t, Validate(PaymentForm{Method: "SIMULATED"}), []string{"policyId", "amount", "reference"})
	assertInvalid(t, Validate(ProductForm{Code: "C", Title: "T", Premium: 0, TermMonths: 12}), []string{"premium"})
}

func TestClaimDecisionForm(t *testing.T) {
	assertInvalid(t, Validate(ClaimDecisionForm{Status: "APPROVED"}), nil)
	assertInvalid(t, Validate(ClaimDecisionForm{Status: "approved"}), []string{"status"})
}

func TestAgentFormRequest(t *testing.T) {
	f := AgentForm{Name: "Ag", Email: "ag@x.io", Password: "secret1"}
	assertInvalid(t, Validate(f), nil)
	if req := f.Request(); req.Role != "agent" {
		t.Errorf("Role = %q, want agent", req.Role)
	}
}

func TestValidationErrorIsSorted(t *testing.T) {
	err := Validate(LoginForm{})
	want := "validation failed: email is required; password is required; role is required"
	if err == nil || err.Error() != want {
		t.Errorf("Error() = %q, want %q", err, want)
	}
}

func assertInvalid(t *testing.T, err error, fields []string) {
	t.Helper()
	if len(fields) == 0 {
		if err != nil {
			t.Fatalf("Validate() = %v, want nil", err)
		}
		return
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if len(verr.Errors) != len(fields) {
		t.Errorf("invalid fields = %v, want %v", verr.Errors, fields)
	}
	for _, f := range fields {
		if msg := verr.Field(f); msg == "" || !strings.HasPrefix(msg, f) {
			t.Errorf("field %q message = %q", f, msg)
		}
	}
}
