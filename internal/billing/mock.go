package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MockProvider is a mock billing provider for tests and local development.
// It simulates successful payment flows without calling the Stripe API.
type MockProvider struct {
	// CreatePaymentIntentFunc allows customizing creation behavior.
	CreatePaymentIntentFunc func(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error)

	// PaymentIntents stores created intents for retrieval.
	PaymentIntents map[string]*PaymentIntent

	// CallLog tracks method calls for test assertions.
	CallLog []string
}

// Compile-time check that MockProvider implements Provider.
var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a new mock billing provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		PaymentIntents: make(map[string]*PaymentIntent),
	}
}

// CreatePaymentIntent records and returns a fake payment intent.
func (m *MockProvider) CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error) {
	m.CallLog = append(m.CallLog, "CreatePaymentIntent")

	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, params)
	}
	if params.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	id := fmt.Sprintf("pi_mock_%s", uuid.New().String()[:8])
	pi := &PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		AmountCents:  params.AmountCents,
		Currency:     params.Currency,
		Status:       "requires_payment_method",
	}
	m.PaymentIntents[id] = pi
	return pi, nil
}

// GetPaymentIntent returns a previously created intent.
func (m *MockProvider) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error) {
	m.CallLog = append(m.CallLog, "GetPaymentIntent")

	pi, ok := m.PaymentIntents[paymentIntentID]
	if !ok {
		return nil, fmt.Errorf("mock: payment intent %s not found", paymentIntentID)
	}
	return pi, nil
}

// CancelPaymentIntent marks a stored intent canceled.
func (m *MockProvider) CancelPaymentIntent(ctx context.Context, paymentIntentID string) error {
	m.CallLog = append(m.CallLog, "CancelPaymentIntent")

	pi, ok := m.PaymentIntents[paymentIntentID]
	if !ok {
		return fmt.Errorf("mock: payment intent %s not found", paymentIntentID)
	}
	pi.Status = "canceled"
	return nil
}
