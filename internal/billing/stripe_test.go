package billing

import (
	"context"
	"testing"
)

func TestStripeConfig_Validate(t *testing.T) {
	cfg := StripeConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing API key")
	}

	cfg.APIKey = "sk_test_123"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !cfg.IsTestMode() {
		t.Error("sk_test_ key should report test mode")
	}

	cfg.APIKey = "sk_live_123"
	if cfg.IsTestMode() {
		t.Error("sk_live_ key should not report test mode")
	}
}

func TestNewPaymentIntentParams_OmitsEmptyIdempotencyKey(t *testing.T) {
	params := newPaymentIntentParams(context.Background(), CreatePaymentIntentParams{
		AmountCents: 19700,
		Currency:    "usd",
	})

	if params.Params.IdempotencyKey != nil {
		t.Errorf("idempotency key = %q, want unset", *params.Params.IdempotencyKey)
	}
	if params.ReceiptEmail != nil {
		t.Error("receipt email should be unset without a customer email")
	}
}

func TestNewPaymentIntentParams_CarriesKeyAndMetadata(t *testing.T) {
	params := newPaymentIntentParams(context.Background(), CreatePaymentIntentParams{
		AmountCents:    19700,
		Currency:       "usd",
		CustomerEmail:  "shopper@example.com",
		IdempotencyKey: "idem-1",
		Metadata:       map[string]string{"cart_id": "cart-1"},
	})

	if params.Params.IdempotencyKey == nil || *params.Params.IdempotencyKey != "idem-1" {
		t.Error("idempotency key not carried through")
	}
	if params.ReceiptEmail == nil || *params.ReceiptEmail != "shopper@example.com" {
		t.Error("receipt email not carried through")
	}
	if *params.Amount != 19700 {
		t.Errorf("amount = %d, want 19700", *params.Amount)
	}
	if params.Metadata["cart_id"] != "cart-1" {
		t.Error("metadata not carried through")
	}
}
