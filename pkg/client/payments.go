package client

import (
	"context"
	"fmt"

	"github.com/insurely/insurely/pkg/domain"
)

// RecordPaymentRequest is the payload for recording a premium payment.
type RecordPaymentRequest struct {
	PolicyID  string  `json:"policyId,omitempty"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

// RecordPayment records a payment.
func (c *Client) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*domain.Payment, error) {
	var p domain.Payment
	if err := c.post(ctx, "/payments", req, &p); err != nil {
		return nil, fmt.Errorf("client.RecordPayment: %w", err)
	}
	return &p, nil
}

// ListMyPayments returns the caller's payments.
func (c *Client) ListMyPayments(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := c.get(ctx, "/payments/user", &payments); err != nil {
		return nil, fmt.Errorf("client.ListMyPayments: %w", err)
	}
	return payments, nil
}
