package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// AdminSummary is the headline counters shown on the admin dashboard.
type AdminSummary struct {
	Users         int     `json:"users"`
	PoliciesSold  int     `json:"policiesSold"`
	ClaimsPending int     `json:"claimsPending"`
	TotalPayments float64 `json:"totalPayments"`
}

// AuditLog is a single backend audit entry. Details is free-form.
type AuditLog struct {
	ID        string          `json:"_id"`
	Action    string          `json:"action"`
	UserID    string          `json:"userId"`
	UserName  *string         `json:"userName,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Agent is a staff member customers can be assigned to.
type Agent struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	AssignedUsers []string `json:"assignedUsers,omitempty"`
}

// DetailText flattens Details to sorted key=value pairs on one line. Details
// that are not an object are returned as text.
func (l AuditLog) DetailText() string {
	if len(l.Details) == 0 || string(l.Details) == "null" {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal(l.Details, &fields); err != nil {
		return strings.Join(strings.Fields(string(l.Details)), " ")
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(parts, " ")
}
