package voucher

import (
	"time"

	"github.com/emblashop/embla/internal/domain"
)

// Best holds the winning voucher of a PickBest run and its evaluation.
type Best struct {
	Voucher    domain.Voucher
	Evaluation Evaluation
}

// PickBest evaluates every voucher and returns the eligible one yielding the
// greatest discount. Ties break to the soonest-expiring voucher (surfacing
// urgency to the user), then to input order. Returns nil when no voucher is
// eligible.
//
// Selection is linear in the voucher count (typically < 50) and is re-run
// whenever the subtotal or selected-item set changes; no memoization.
func PickBest(vouchers []domain.Voucher, orderSubtotal float64, selectedItemIDs []string, now time.Time) *Best {
	var best *Best
	for _, v := range vouchers {
		eval := Evaluate(v, orderSubtotal, selectedItemIDs, now)
		if !eval.Eligible {
			continue
		}
		if best == nil || better(v, eval, best) {
			best = &Best{Voucher: v, Evaluation: eval}
		}
	}
	return best
}

// better reports whether the candidate beats the current best. Strict
// comparisons keep input order as the final tie-break.
func better(v domain.Voucher, eval Evaluation, best *Best) bool {
	if eval.DiscountAmount != best.Evaluation.DiscountAmount {
		return eval.DiscountAmount > best.Evaluation.DiscountAmount
	}
	return v.EndTime.Before(best.Voucher.EndTime)
}
