package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/insurely/insurely/pkg/domain"
)

// CreateAgentRequest is the payload for creating an agent account.
type CreateAgentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AdminSummary returns the admin dashboard counters.
func (c *Client) AdminSummary(ctx context.Context) (*domain.AdminSummary, error) {
	var s domain.AdminSummary
	if err := c.get(ctx, "/admin/summary", &s); err != nil {
		return nil, fmt.Errorf("client.AdminSummary: %w", err)
	}
	return &s, nil
}

// AuditLogs returns the backend audit trail.
func (c *Client) AuditLogs(ctx context.Context) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	if err := c.get(ctx, "/admin/audit", &logs); err != nil {
		return nil, fmt.Errorf("client.AuditLogs: %w", err)
	}
	return logs, nil
}

// ListUsers returns users, optionally filtered by a search query.
func (c *Client) ListUsers(ctx context.Context, query string) ([]domain.BasicUser, error) {
	path := "/admin/users"
	if query != "" {
		params := url.Values{}
		params.Set("q", query)
		path += "?" + params.Encode()
	}
	var users []domain.BasicUser
	if err := c.get(ctx, path, &users); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}

// ListAgents returns all agents.
func (c *Client) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	var agents []domain.Agent
	if err := c.get(ctx, "/admin/agents", &agents); err != nil {
		return nil, fmt.Errorf("client.ListAgents: %w", err)
	}
	return agents, nil
}

// CreateAgent creates an agent account.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*domain.Agent, error) {
	var agent domain.Agent
	if err := c.post(ctx, "/admin/agents", req, &agent); err != nil {
		return nil, fmt.Errorf("client.CreateAgent: %w", err)
	}
	return &agent, nil
}

// AssignAgent assigns a user to an agent.
func (c *Client) AssignAgent(ctx context.Context, agentID, userID string) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.put(ctx, "/admin/agents/"+url.PathEscape(agentID)+"/assign", map[string]string{"userId": userID}, &resp); err != nil {
		return nil, fmt.Errorf("client.AssignAgent: %w", err)
	}
	return &resp, nil
}
