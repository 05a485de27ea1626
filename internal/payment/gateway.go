// Package payment wraps the external cash-in payment provider.
package payment

import "context"

// CashinResult is the provider's response to a charge request. Ref is the
// external reference later carried by the asynchronous callback.
type CashinResult struct {
	Ref    string  `json:"ref"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

// Gateway initiates charges against the external payment provider.
type Gateway interface {
	// Cashin requests a charge of amount against the given account number.
	Cashin(ctx context.Context, account string, amount float64) (*CashinResult, error)
}
