package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/insurely/insurely/pkg/domain"
)

// AssignedUsers returns the customers assigned to the calling agent.
func (c *Client) AssignedUsers(ctx context.Context) ([]domain.BasicUser, error) {
	var users []domain.BasicUser
	if err := c.get(ctx, "/agent/assigned-users", &users); err != nil {
		return nil, fmt.Errorf("client.AssignedUsers: %w", err)
	}
	return users, nil
}

// AssignedClaims returns claims filed by the calling agent's customers.
func (c *Client) AssignedClaims(ctx context.Context) ([]domain.Claim, error) {
	var claims []domain.Claim
	if err := c.get(ctx, "/agent/claims", &claims); err != nil {
		return nil, fmt.Errorf("client.AssignedClaims: %w", err)
	}
	return claims, nil
}

// AgentUpdateClaim decides a claim through the agent endpoint.
func (c *Client) AgentUpdateClaim(ctx context.Context, id string, req UpdateClaimStatusRequest) (*domain.Claim, error) {
	var claim domain.Claim
	if err := c.put(ctx, "/agent/claims/"+url.PathEscape(id), req, &claim); err != nil {
		return nil, fmt.Errorf("client.AgentUpdateClaim: %w", err)
	}
	return &claim, nil
}
