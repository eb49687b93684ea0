// Package pricing contains the discount arithmetic shared by product
// discounts and vouchers. All functions are pure.
//
// Inputs and outputs are plain non-negative float64 values in the store's
// base currency unit. Percentage discounts are fractions in [0,1]. No
// rounding happens here; currency-display rounding is the caller's concern.
package pricing

import (
	"math"

	"github.com/emblashop/embla/internal/domain"
)

// UnitPriceAfterDiscount computes the post-discount unit price.
// A zero or negative discount value, or an unknown kind, leaves the base
// price unchanged. Results are clamped to >= 0 and never NaN.
func UnitPriceAfterDiscount(basePrice, discountValue float64, kind domain.DiscountKind) float64 {
	if !isFinite(basePrice) || basePrice < 0 {
		return 0
	}
	if discountValue <= 0 || !isFinite(discountValue) {
		return basePrice
	}

	var price float64
	switch kind {
	case domain.DiscountPercentage:
		price = basePrice * (1 - discountValue)
	case domain.DiscountAmount:
		price = basePrice - discountValue
	default:
		return basePrice
	}

	if price < 0 || !isFinite(price) {
		return 0
	}
	return price
}

// LineTotal computes the post-discount total for a line. A non-positive
// quantity yields 0 rather than a negative or NaN total, so the function
// stays sane even if an out-of-range quantity slips past the boundary clamp.
func LineTotal(basePrice float64, quantity int, discountValue float64, kind domain.DiscountKind) float64 {
	if quantity <= 0 {
		return 0
	}
	return UnitPriceAfterDiscount(basePrice, discountValue, kind) * float64(quantity)
}

// RawDiscount computes the undiscounted-minus-discounted delta on an amount.
// Used by voucher evaluation against an aggregated subtotal.
func RawDiscount(amount, discountValue float64, kind domain.DiscountKind) float64 {
	discounted := UnitPriceAfterDiscount(amount, discountValue, kind)
	delta := amount - discounted
	if delta < 0 || !isFinite(delta) {
		return 0
	}
	return delta
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
