// Package voucher evaluates voucher eligibility and discount amounts against
// a candidate order subtotal, and picks the best voucher for a scope.
// Ineligibility is a typed result, never an error: it is always locally
// recoverable by picking another voucher or adjusting the cart.
package voucher

import (
	"time"

	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/pricing"
)

// Evaluation is the outcome of evaluating one voucher. Eligibility and
// reason are mutually exclusive with a positive discount: an ineligible
// voucher always reports a zero discount amount.
type Evaluation struct {
	Eligible       bool
	Reason         domain.UnavailableReason
	DiscountAmount float64
}

func ineligible(reason domain.UnavailableReason) Evaluation {
	return Evaluation{Eligible: false, Reason: reason}
}

// Evaluate checks a voucher's constraints against the subtotal for its scope
// and the selected item ids, then computes the capped discount amount.
//
// Gates run in order: start time, specific-item applicability, minimum order
// value, server-side usage cap. The subtotal and selection are re-validated
// locally even when the server already annotated the voucher, because the
// client-held subtotal may have changed since the voucher list was fetched.
func Evaluate(v domain.Voucher, orderSubtotal float64, selectedItemIDs []string, now time.Time) Evaluation {
	if now.Before(v.StartTime) {
		return ineligible(domain.ReasonNotStartYet)
	}

	if v.ApplyType == domain.VoucherApplySpecific && !intersects(v.ApplicableItemIDs, selectedItemIDs) {
		return ineligible(domain.ReasonNotApplicable)
	}

	if v.MinOrderValue > 0 && orderSubtotal < v.MinOrderValue {
		return ineligible(domain.ReasonMinimumOrderNotMet)
	}

	// Usage cap is decided upstream and carried on the voucher snapshot.
	if v.Status == domain.VoucherStatusUnavailable && v.UnavailableReason == domain.ReasonOutOfStock {
		return ineligible(domain.ReasonOutOfStock)
	}

	raw := pricing.RawDiscount(orderSubtotal, v.DiscountValue, v.DiscountKind)

	// Per-order cap: applied after aggregation, not per unit.
	if v.MaxDiscount > 0 && raw > v.MaxDiscount {
		raw = v.MaxDiscount
	}

	return Evaluation{Eligible: true, DiscountAmount: raw}
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if set[id] {
			return true
		}
	}
	return false
}
