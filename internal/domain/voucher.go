package domain

import "time"

// =============================================================================
// VOUCHER DOMAIN TYPES
// =============================================================================

// VoucherScope determines which subtotal a voucher discounts.
type VoucherScope string

const (
	VoucherScopeBrand    VoucherScope = "brand"
	VoucherScopePlatform VoucherScope = "platform"
)

// VoucherApplyType restricts which items count toward a voucher.
type VoucherApplyType string

const (
	VoucherApplyAll      VoucherApplyType = "all"
	VoucherApplySpecific VoucherApplyType = "specific"
)

// VoucherStatus is the server-annotated availability of a voucher.
// Claiming an UNCLAIMED voucher is an external side effect, not computed here.
type VoucherStatus string

const (
	VoucherStatusAvailable   VoucherStatus = "available"
	VoucherStatusUnavailable VoucherStatus = "unavailable"
	VoucherStatusUnclaimed   VoucherStatus = "unclaimed"
)

// UnavailableReason explains why a voucher cannot be applied.
// These are typed results, never errors: the user picks a different voucher
// or adjusts the cart.
type UnavailableReason string

const (
	ReasonNone               UnavailableReason = ""
	ReasonNotStartYet        UnavailableReason = "not_start_yet"
	ReasonNotApplicable      UnavailableReason = "not_applicable"
	ReasonMinimumOrderNotMet UnavailableReason = "minimum_order_not_met"
	ReasonOutOfStock         UnavailableReason = "out_of_stock"
)

// Voucher is an immutable promotion input fetched per brand or platform-wide.
// Min-order and applicability are re-validated locally because the client-held
// subtotal may have changed since the voucher list was fetched.
type Voucher struct {
	ID      string
	Scope   VoucherScope
	BrandID string // empty for platform scope

	DiscountKind  DiscountKind
	DiscountValue float64

	// MaxDiscount caps the computed discount when > 0. The cap applies to the
	// aggregated order subtotal for the voucher's scope, not per unit.
	MaxDiscount float64

	// MinOrderValue gates eligibility when > 0.
	MinOrderValue float64

	ApplyType         VoucherApplyType
	ApplicableItemIDs []string

	StartTime time.Time
	EndTime   time.Time

	Status            VoucherStatus
	UnavailableReason UnavailableReason
}
