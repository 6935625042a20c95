package tui

import (
	"errors"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/pkg/client"
)

// Fallback messages shown when the backend supplies none.
const (
	msgLoginFailed      = "Login failed. Please try again."
	msgRegisterFailed   = "Registration failed. Please try again."
	msgLoadPolicies     = "Failed to load policies. Please try again."
	msgLoadPolicy       = "Failed to load policy details. Please try again."
	msgPurchaseFailed   = "Failed to purchase policy. Please try again."
	msgLoadMyPolicies   = "Failed to load policies"
	msgCancelFailed     = "Failed to cancel policy"
	msgDeleteFailed     = "Failed to delete policy product."
	msgLoadClaims       = "Failed to load claims. Please try again."
	msgSubmitClaim      = "Failed to submit claim. Please try again."
	msgUpdateClaim      = "Failed to update claim"
	msgLoadPayments     = "Failed to load payments. Please try again."
	msgRecordPayment    = "Failed to record payment."
	msgLoadSummary      = "Failed to load summary"
	msgLoadAgents       = "Failed to load agents"
	msgCreateAgent      = "Failed to create agent"
	msgAssignAgent      = "Failed to assign user"
	msgLoadAudit        = "Failed to load audit logs"
	msgLoadAssignments  = "Failed to load assigned customers"
	msgPermissionDenied = "You do not have access to that screen."
)

func userMessage(err error, fallback string) string {
	return client.UserMessage(err, fallback)
}

func asValidation(err error, target **forms.ValidationError) bool {
	return errors.As(err, target)
}
