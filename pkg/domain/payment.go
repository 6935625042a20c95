package domain

import "time"

// DefaultPaymentMethod is preselected on the payment form.
const DefaultPaymentMethod = "SIMULATED"

// Payment is a premium payment recorded by a customer.
type Payment struct {
	ID           string    `json:"_id"`
	UserID       string    `json:"userId"`
	UserPolicyID string    `json:"userPolicyId,omitempty"`
	Amount       float64   `json:"amount"`
	Method       string    `json:"method"`
	Reference    string    `json:"reference"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TotalAmount sums the amounts of payments.
func TotalAmount(payments []Payment) float64 {
	var sum float64
	for _, p := range payments {
		sum += p.Amount
	}
	return sum
}

// AverageAmount returns the mean payment amount, or 0 for no payments.
func AverageAmount(payments []Payment) float64 {
	if len(payments) == 0 {
		return 0
	}
	return TotalAmount(payments) / float64(len(payments))
}
