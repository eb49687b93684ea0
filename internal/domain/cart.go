package domain

import "time"

// =============================================================================
// CART DOMAIN TYPES AND ERRORS
// =============================================================================

var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartLineNotFound = &Error{Code: ENOTFOUND, Message: "Cart line not found"}
	ErrVariantNotFound  = &Error{Code: ENOTFOUND, Message: "Variant not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrStockExceeded    = &Error{Code: EINVALID, Message: "Quantity exceeds available stock"}
)

// Cart is a device-scoped cart snapshot.
type Cart struct {
	ID        string
	SessionID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is one variant held in a cart. Price and discount context are
// snapshotted when the line is written so selection totals are computable
// without another catalog round-trip.
type CartLine struct {
	ID        string
	CartID    string
	BrandID   string
	ProductID string
	VariantID string

	Quantity int
	Selected bool

	// Pricing snapshot.
	UnitPrice     float64
	DiscountKind  DiscountKind // empty when no product discount applies
	DiscountValue float64
}

// ChosenVoucher records the voucher a shopper applied for one scope.
// BrandID is empty for the platform-scope choice.
type ChosenVoucher struct {
	CartID    string
	BrandID   string
	VoucherID string
}

// =============================================================================
// COMMIT EVENTS
// =============================================================================

// Commit events carry the pre-change values the caller needs for rollback
// when the server rejects an optimistic local update.

// VariantChangedEvent signals a committed classification change on a line.
type VariantChangedEvent struct {
	CartID       string
	LineID       string
	OldVariantID string
	NewVariantID string
	Quantity     int
}

// QuantityChangedEvent signals a committed quantity change on a line.
type QuantityChangedEvent struct {
	CartID      string
	LineID      string
	VariantID   string
	OldQuantity int
	NewQuantity int
}

// LineRemovedEvent signals a line removal.
type LineRemovedEvent struct {
	CartID    string
	LineID    string
	VariantID string
	Quantity  int
}
