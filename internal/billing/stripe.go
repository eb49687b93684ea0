package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/client"
)

// StripeConfig contains configuration for the Stripe provider.
type StripeConfig struct {
	// APIKey is the Stripe secret key (sk_test_... or sk_live_...).
	APIKey string
}

// Validate checks that required configuration is present.
func (c *StripeConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("stripe: API key is required")
	}
	return nil
}

// IsTestMode returns true if using test mode API keys.
func (c *StripeConfig) IsTestMode() bool {
	return len(c.APIKey) > 7 && c.APIKey[:8] == "sk_test_"
}

// StripeProvider implements Provider using Stripe payment intents.
type StripeProvider struct {
	sc *client.API
}

// Compile-time check that StripeProvider implements Provider.
var _ Provider = (*StripeProvider)(nil)

// NewStripeProvider creates a new Stripe billing provider.
func NewStripeProvider(config StripeConfig) (*StripeProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &StripeProvider{
		sc: client.New(config.APIKey, nil),
	}, nil
}

// CreatePaymentIntent creates a Stripe payment intent.
func (s *StripeProvider) CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error) {
	if params.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	pi, err := s.sc.PaymentIntents.New(newPaymentIntentParams(ctx, params))
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	return fromStripeIntent(pi), nil
}

// GetPaymentIntent retrieves an existing payment intent.
func (s *StripeProvider) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error) {
	pi, err := s.sc.PaymentIntents.Get(paymentIntentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("stripe: get payment intent: %w", err)
	}
	return fromStripeIntent(pi), nil
}

// CancelPaymentIntent cancels an unconfirmed payment intent.
func (s *StripeProvider) CancelPaymentIntent(ctx context.Context, paymentIntentID string) error {
	_, err := s.sc.PaymentIntents.Cancel(paymentIntentID, &stripe.PaymentIntentCancelParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return fmt.Errorf("stripe: cancel payment intent: %w", err)
	}
	return nil
}

// newPaymentIntentParams maps provider params onto the Stripe request shape.
// An empty idempotency key is omitted rather than sent: Stripe would dedupe
// unrelated requests against each other.
func newPaymentIntentParams(ctx context.Context, params CreatePaymentIntentParams) *stripe.PaymentIntentParams {
	piParams := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:   stripe.Int64(params.AmountCents),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if params.IdempotencyKey != "" {
		piParams.Params.IdempotencyKey = stripe.String(params.IdempotencyKey)
	}
	if params.CustomerEmail != "" {
		piParams.ReceiptEmail = stripe.String(params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}
	return piParams
}

func fromStripeIntent(pi *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}
