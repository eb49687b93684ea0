// Package billing wraps the payment provider behind a narrow interface so
// checkout logic stays provider-agnostic and testable.
package billing

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAmount indicates a non-positive charge amount.
	ErrInvalidAmount = errors.New("billing: amount must be positive")
)

// Provider defines the interface for payment processing.
type Provider interface {
	// CreatePaymentIntent creates a payment intent for a one-time charge.
	// Returns the intent with a client secret for frontend confirmation.
	CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error)

	// GetPaymentIntent retrieves an existing payment intent, used to verify
	// payment state before the order is finalized.
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)

	// CancelPaymentIntent cancels an unconfirmed payment intent when a
	// checkout is abandoned.
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) error
}

// CreatePaymentIntentParams contains parameters for creating a payment intent.
type CreatePaymentIntentParams struct {
	// AmountCents is the charge amount in the smallest currency unit.
	AmountCents int64

	// Currency is the ISO currency code (e.g. "usd").
	Currency string

	CustomerEmail string

	// IdempotencyKey guards against double submission from the client.
	IdempotencyKey string

	// Metadata is attached to the provider object for reconciliation.
	Metadata map[string]string
}

// PaymentIntent is the provider-neutral view of a payment intent.
type PaymentIntent struct {
	// ID is the provider's payment intent id (pi_... for Stripe).
	ID string

	// ClientSecret is used by the mobile client to confirm payment.
	ClientSecret string

	AmountCents int64
	Currency    string

	// Status: requires_payment_method, requires_confirmation, succeeded, ...
	Status string
}
