package domain

import "time"

// Claim statuses.
const (
	ClaimPending  = "PENDING"
	ClaimApproved = "APPROVED"
	ClaimRejected = "REJECTED"
)

// Claim is a request for payout against a purchased policy.
type Claim struct {
	ID               string    `json:"_id"`
	UserID           string    `json:"userId"`
	UserPolicyID     string    `json:"userPolicyId"`
	IncidentDate     time.Time `json:"incidentDate"`
	Description      string    `json:"description"`
	AmountClaimed    float64   `json:"amountClaimed"`
	Status           string    `json:"status"`
	DecisionNotes    string    `json:"decisionNotes,omitempty"`
	DecidedByAgentID string    `json:"decidedByAgentId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ValidClaimStatus reports whether s is a known claim status.
func ValidClaimStatus(s string) bool {
	switch s {
	case ClaimPending, ClaimApproved, ClaimRejected:
		return true
	}
	return false
}

// CountPending returns the number of PENDING claims.
func CountPending(claims []Claim) int {
	n := 0
	for _, c := range claims {
		if c.Status == ClaimPending {
			n++
		}
	}
	return n
}
