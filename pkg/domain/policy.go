package domain

import "time"

// UserPolicy statuses.
const (
	PolicyActive    = "ACTIVE"
	PolicyCancelled = "CANCELLED"
	PolicyExpired   = "EXPIRED"
)

// PolicyProduct is an insurance product in the catalog.
type PolicyProduct struct {
	ID            string    `json:"_id,omitempty"`
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Premium       float64   `json:"premium"`
	TermMonths    int       `json:"termMonths"`
	MinSumInsured float64   `json:"minSumInsured"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
	UpdatedAt     time.Time `json:"updatedAt,omitzero"`
}

// Nominee is the beneficiary named on a purchased policy.
type Nominee struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// UserPolicy is a policy product purchased by a customer.
// The backend populates policyProductId with the full product.
type UserPolicy struct {
	ID              string        `json:"_id"`
	UserID          string        `json:"userId"`
	PolicyProduct   PolicyProduct `json:"policyProductId"`
	StartDate       time.Time     `json:"startDate"`
	EndDate         time.Time     `json:"endDate"`
	PremiumPaid     float64       `json:"premiumPaid"`
	Status          string        `json:"status"`
	AssignedAgentID string        `json:"assignedAgentId,omitempty"`
	Nominee         *Nominee      `json:"nominee,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// ValidPolicyStatus reports whether s is a known UserPolicy status.
func ValidPolicyStatus(s string) bool {
	switch s {
	case PolicyActive, PolicyCancelled, PolicyExpired:
		return true
	}
	return false
}

// CountActive returns the number of ACTIVE policies.
func CountActive(policies []UserPolicy) int {
	n := 0
	for _, p := range policies {
		if p.Status == PolicyActive {
			n++
		}
	}
	return n
}
