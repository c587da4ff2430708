// Package payment defines the external payment gateway collaborator. The
// project ships only a stub; a real integration replaces the Gateway value
// wired in at startup.
package payment

import (
	"context" // Cancellation of the gateway call
	"time"    // Artificial processing delay

	"github.com/google/uuid" // Transaction identifiers
)

// ChargeRequest carries what a gateway needs to attempt a charge.
type ChargeRequest struct {
	PurchaseID     uint    `json:"purchase_id"`               // Purchase being paid for
	PaymentMethod  string  `json:"payment_method"`            // e.g. credit_card, paypal
	Amount         float64 `json:"amount"`                    // Amount to charge
	CardNumber     string  `json:"card_number,omitempty"`     // Card-like fields, unused by the stub
	ExpiryDate     string  `json:"expiry_date,omitempty"`     // Card expiry
	CVV            string  `json:"cvv,omitempty"`             // Card verification value
	BillingAddress string  `json:"billing_address,omitempty"` // Billing address
}

// Result is the gateway's answer to a charge or refund attempt.
type Result struct {
	Success       bool   // Whether the attempt went through
	TransactionID string // Gateway transaction reference
	ErrorMessage  string // Failure reason when Success is false
}

// Gateway is the injectable payment capability. Implementations must be safe
// for concurrent use.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (Result, error)
	Refund(ctx context.Context, transactionID string, amount float64) (Result, error)
}

// StubGateway simulates a payment provider: it waits a fixed delay and
// always succeeds with a fresh transaction id. Not a real integration.
type StubGateway struct {
	Delay time.Duration // Simulated provider round-trip time
}

// Charge always succeeds after the configured delay
func (g *StubGateway) Charge(ctx context.Context, req ChargeRequest) (Result, error) {
	if err := g.wait(ctx); err != nil {
		return Result{}, err // Caller cancelled while "processing"
	}
	return Result{Success: true, TransactionID: uuid.NewString()}, nil
}

// Refund always succeeds after the configured delay
func (g *StubGateway) Refund(ctx context.Context, transactionID string, amount float64) (Result, error) {
	if err := g.wait(ctx); err != nil {
		return Result{}, err // Caller cancelled while "processing"
	}
	return Result{Success: true, TransactionID: transactionID}, nil
}

func (g *StubGateway) wait(ctx context.Context) error {
	timer := time.NewTimer(g.Delay) // Simulate the provider API call
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
