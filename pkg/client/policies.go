package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/insurely/insurely/pkg/domain"
)

// PurchasePolicyRequest is the payload for buying a policy product.
// All fields are optional; the backend applies product defaults.
type PurchasePolicyRequest struct {
	StartDate  string          `json:"startDate,omitempty"`
	TermMonths int             `json:"termMonths,omitempty"`
	Nominee    *domain.Nominee `json:"nominee,omitempty"`
}

// MessageResponse is the {message} body returned by delete/assign endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListPolicyProducts returns the policy catalog.
func (c *Client) ListPolicyProducts(ctx context.Context) ([]domain.PolicyProduct, error) {
	var products []domain.PolicyProduct
	if err := c.get(ctx, "/policies", &products); err != nil {
		return nil, fmt.Errorf("client.ListPolicyProducts: %w", err)
	}
	return products, nil
}

// GetPolicyProduct fetches a single policy product by ID.
func (c *Client) GetPolicyProduct(ctx context.Context, id string) (*domain.PolicyProduct, error) {
	var p domain.PolicyProduct
	if err := c.get(ctx, "/policies/"+url.PathEscape(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetPolicyProduct: %w", err)
	}
	return &p, nil
}

// CreatePolicyProduct adds a product to the catalog (admin only).
func (c *Client) CreatePolicyProduct(ctx context.Context, p domain.PolicyProduct) (*domain.PolicyProduct, error) {
	var created domain.PolicyProduct
	if err := c.post(ctx, "/policies", p, &created); err != nil {
		return nil, fmt.Errorf("client.CreatePolicyProduct: %w", err)
	}
	return &created, nil
}

// DeletePolicyProduct removes a product from the catalog (admin only).
func (c *Client) DeletePolicyProduct(ctx context.Context, id string) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.doRequest(ctx, http.MethodDelete, "/policies/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("client.DeletePolicyProduct: %w", err)
	}
	return &resp, nil
}

// PurchasePolicy buys the policy product with the given ID.
func (c *Client) PurchasePolicy(ctx context.Context, productID string, req PurchasePolicyRequest) (*domain.UserPolicy, error) {
	var up domain.UserPolicy
	if err := c.post(ctx, "/policies/"+url.PathEscape(productID)+"/purchase", req, &up); err != nil {
		return nil, fmt.Errorf("client.PurchasePolicy: %w", err)
	}
	return &up, nil
}

// ListMyPolicies returns the caller's purchased policies.
func (c *Client) ListMyPolicies(ctx context.Context) ([]domain.UserPolicy, error) {
	var policies []domain.UserPolicy
	if err := c.get(ctx, "/policies/user/me", &policies); err != nil {
		return nil, fmt.Errorf("client.ListMyPolicies: %w", err)
	}
	return policies, nil
}

// CancelPolicy cancels one of the caller's purchased policies.
func (c *Client) CancelPolicy(ctx context.Context, userPolicyID string) (*domain.UserPolicy, error) {
	var up domain.UserPolicy
	if err := c.put(ctx, "/policies/user/"+url.PathEscape(userPolicyID)+"/cancel", struct{}{}, &up); err != nil {
		return nil, fmt.Errorf("client.CancelPolicy: %w", err)
	}
	return &up, nil
}
