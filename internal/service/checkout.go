package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/emblashop/embla/internal/billing"
	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/voucher"
)

// Checkout-specific errors.
var (
	ErrNothingSelected = domain.Errorf(domain.EINVALID, "", "No cart lines selected for checkout")
)

// CheckoutService computes the order total over the selected cart lines and
// initiates payment.
type CheckoutService interface {
	// CalculateTotal computes the order breakdown: per-brand subtotals,
	// applied voucher discounts, and the grand total.
	CalculateTotal(ctx context.Context, cartID string) (*OrderTotal, error)

	// CreatePaymentIntent computes the total and opens a payment intent
	// with the billing provider.
	CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*billing.PaymentIntent, error)
}

// BrandTotal is one brand's slice of the order total.
type BrandTotal struct {
	BrandID  string
	Subtotal float64

	// VoucherID and VoucherDiscount reflect the applied brand voucher after
	// re-evaluation; a voucher that lost eligibility contributes nothing.
	VoucherID       string
	VoucherDiscount float64
}

// OrderTotal is the breakdown surfaced to the checkout screen.
type OrderTotal struct {
	Brands []BrandTotal

	// Subtotal is the sum of selected post-discount line totals.
	Subtotal float64

	// BrandDiscount is the sum of applied brand voucher discounts.
	BrandDiscount float64

	PlatformVoucherID string
	PlatformDiscount  float64

	// Total = Subtotal - BrandDiscount - PlatformDiscount, never negative.
	Total float64
}

// PaymentIntentParams contains parameters for initiating payment.
type PaymentIntentParams struct {
	CartID         string
	CustomerEmail  string
	Currency       string
	IdempotencyKey string
}

type checkoutService struct {
	carts    CartService
	vouchers VoucherStore
	billing  billing.Provider
	now      func() time.Time
}

// NewCheckoutService creates a new CheckoutService instance.
func NewCheckoutService(carts CartService, vouchers VoucherStore, provider billing.Provider) CheckoutService {
	return &checkoutService{
		carts:    carts,
		vouchers: vouchers,
		billing:  provider,
		now:      time.Now,
	}
}

// CalculateTotal computes the order breakdown for the cart's selection.
func (s *checkoutService) CalculateTotal(ctx context.Context, cartID string) (*OrderTotal, error) {
	summary, err := s.carts.GetSummary(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if summary.SelectedCount == 0 {
		return nil, ErrNothingSelected
	}

	now := s.now()
	total := &OrderTotal{
		Subtotal: summary.SubtotalPlatform,
	}

	for _, group := range summary.Brands {
		bt := BrandTotal{
			BrandID:  group.BrandID,
			Subtotal: group.Subtotal,
		}

		if group.ChosenVoucherID != "" {
			discount, err := s.appliedDiscount(ctx, group.ChosenVoucherID, group.Subtotal, variantIDs(group.Lines), now)
			if err != nil {
				return nil, err
			}
			if discount > 0 {
				bt.VoucherID = group.ChosenVoucherID
				bt.VoucherDiscount = discount
				total.BrandDiscount += discount
			}
		}

		total.Brands = append(total.Brands, bt)
	}

	if summary.PlatformVoucherID != "" {
		var selected []string
		for _, group := range summary.Brands {
			selected = append(selected, variantIDs(group.Lines)...)
		}
		discount, err := s.appliedDiscount(ctx, summary.PlatformVoucherID, summary.SubtotalPlatform, selected, now)
		if err != nil {
			return nil, err
		}
		if discount > 0 {
			total.PlatformVoucherID = summary.PlatformVoucherID
			total.PlatformDiscount = discount
		}
	}

	total.Total = total.Subtotal - total.BrandDiscount - total.PlatformDiscount
	if total.Total < 0 {
		total.Total = 0
	}

	return total, nil
}

// CreatePaymentIntent computes the total and opens a payment intent.
func (s *checkoutService) CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*billing.PaymentIntent, error) {
	total, err := s.CalculateTotal(ctx, params.CartID)
	if err != nil {
		return nil, err
	}

	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}

	return s.billing.CreatePaymentIntent(ctx, billing.CreatePaymentIntentParams{
		AmountCents:    toCents(total.Total),
		Currency:       currency,
		CustomerEmail:  params.CustomerEmail,
		IdempotencyKey: params.IdempotencyKey,
		Metadata: map[string]string{
			"cart_id":           params.CartID,
			"platform_voucher":  total.PlatformVoucherID,
			"subtotal":          decimal.NewFromFloat(total.Subtotal).StringFixed(2),
			"brand_discount":    decimal.NewFromFloat(total.BrandDiscount).StringFixed(2),
			"platform_discount": decimal.NewFromFloat(total.PlatformDiscount).StringFixed(2),
		},
	})
}

// appliedDiscount re-evaluates a chosen voucher at checkout time. A choice
// that lost eligibility (subtotal dropped, window closed) silently
// contributes zero; the summary path is responsible for clearing it.
func (s *checkoutService) appliedDiscount(ctx context.Context, voucherID string, subtotal float64, selected []string, now time.Time) (float64, error) {
	v, err := s.vouchers.GetVoucher(ctx, voucherID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			// Stale reference: the voucher disappeared server-side.
			return 0, nil
		}
		return 0, err
	}

	eval := voucher.Evaluate(*v, subtotal, selected, now)
	if !eval.Eligible {
		return 0, nil
	}
	return eval.DiscountAmount, nil
}

// toCents converts a base-currency amount to the smallest currency unit for
// the billing provider, rounding half up at the boundary.
func toCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func variantIDs(lines []domain.CartLine) []string {
	var ids []string
	for _, ln := range lines {
		if ln.Selected {
			ids = append(ids, ln.VariantID)
		}
	}
	return ids
}
