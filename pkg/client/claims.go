package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/insurely/insurely/pkg/domain"
)

// SubmitClaimRequest is the payload for filing a claim.
type SubmitClaimRequest struct {
	PolicyID     string  `json:"policyId"`
	IncidentDate string  `json:"incidentDate"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
}

// UpdateClaimStatusRequest is the payload for deciding a claim.
type UpdateClaimStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// SubmitClaim files a new claim.
func (c *Client) SubmitClaim(ctx context.Context, req SubmitClaimRequest) (*domain.Claim, error) {
	var claim domain.Claim
	if err := c.post(ctx, "/claims", req, &claim); err != nil {
		return nil, fmt.Errorf("client.SubmitClaim: %w", err)
	}
	return &claim, nil
}

// ListClaims returns the caller's claims, or all claims for staff.
func (c *Client) ListClaims(ctx context.Context) ([]domain.Claim, error) {
	var claims []domain.Claim
	if err := c.get(ctx, "/claims", &claims); err != nil {
		return nil, fmt.Errorf("client.ListClaims: %w", err)
	}
	return claims, nil
}

// GetClaim fetches a single claim by ID.
func (c *Client) GetClaim(ctx context.Context, id string) (*domain.Claim, error) {
	var claim domain.Claim
	if err := c.get(ctx, "/claims/"+url.PathEscape(id), &claim); err != nil {
		return nil, fmt.Errorf("client.GetClaim: %w", err)
	}
	return &claim, nil
}

// UpdateClaimStatus approves, rejects or reopens a claim (staff only).
func (c *Client) UpdateClaimStatus(ctx context.Context, id string, req UpdateClaimStatusRequest) (*domain.Claim, error) {
	var claim domain.Claim
	if err := c.put(ctx, "/claims/"+url.PathEscape(id)+"/status", req, &claim); err != nil {
		return nil, fmt.Errorf("client.UpdateClaimStatus: %w", err)
	}
	return &claim, nil
}
