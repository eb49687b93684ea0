package domain

import "time"

// =============================================================================
// CATALOG DOMAIN TYPES
// =============================================================================

// ProductStatus represents the lifecycle state of a product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

// VariantStatus represents the lifecycle state of a single variant.
// A hidden variant inherits its invisibility from the product; it still
// renders as disabled in the picker when it is the committed selection.
type VariantStatus string

const (
	VariantStatusActive   VariantStatus = "active"
	VariantStatusInactive VariantStatus = "inactive"
	VariantStatusHidden   VariantStatus = "hidden"
)

// VariantType distinguishes products with a single implicit variant from
// products carrying a full attribute matrix.
type VariantType string

const (
	VariantTypeDefault VariantType = "default"
	VariantTypeCustom  VariantType = "custom"
)

// AttributeKey identifies one axis of a variant's attribute combination.
// The attribute set is closed: color, size and a free-form third axis.
type AttributeKey string

const (
	AttributeColor AttributeKey = "color"
	AttributeSize  AttributeKey = "size"
	AttributeOther AttributeKey = "other"
)

// AttributeKeys lists all attribute axes in canonical order.
var AttributeKeys = []AttributeKey{AttributeColor, AttributeSize, AttributeOther}

// Attributes is a variant's attribute assignment. An empty string means the
// axis is unset; set values are non-empty discrete strings from the catalog.
type Attributes struct {
	Color string
	Size  string
	Other string
}

// Get returns the value for the given key ("" when unset).
func (a Attributes) Get(key AttributeKey) string {
	switch key {
	case AttributeColor:
		return a.Color
	case AttributeSize:
		return a.Size
	case AttributeOther:
		return a.Other
	}
	return ""
}

// With returns a copy of the assignment with key set to value.
func (a Attributes) With(key AttributeKey, value string) Attributes {
	switch key {
	case AttributeColor:
		a.Color = value
	case AttributeSize:
		a.Size = value
	case AttributeOther:
		a.Other = value
	}
	return a
}

// Equal reports whether two assignments are identical on every axis.
func (a Attributes) Equal(b Attributes) bool {
	return a.Color == b.Color && a.Size == b.Size && a.Other == b.Other
}

// DiscountKind selects the arithmetic for a discount value.
// Percentage values are fractions in [0,1], not [0,100].
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountAmount     DiscountKind = "amount"
)

// ProductDiscount is an event-scoped discount attached to a variant.
// While active it overrides the variant's stock with its own allocation and
// caps the quantity a single order may take.
type ProductDiscount struct {
	ID            string
	DiscountKind  DiscountKind
	DiscountValue float64
	Quantity      int // event-scoped stock allocation
	MaxPerOrder   int // 0 means no per-order cap
	StartTime     time.Time
	EndTime       time.Time
}

// ActiveAt reports whether the discount event is running at the given time.
func (d *ProductDiscount) ActiveAt(now time.Time) bool {
	if d == nil {
		return false
	}
	return !now.Before(d.StartTime) && now.Before(d.EndTime)
}

// PreOrder marks a variant as sold ahead of release with its own stock pool.
type PreOrder struct {
	ID        string
	Quantity  int
	ReleaseAt time.Time
	StartTime time.Time
	EndTime   time.Time
}

// ActiveAt reports whether the pre-order window is open at the given time.
func (p *PreOrder) ActiveAt(now time.Time) bool {
	if p == nil {
		return false
	}
	return !now.Before(p.StartTime) && now.Before(p.EndTime)
}

// Variant is one purchasable SKU of a product, defined by an attribute
// combination. Variants are read-only snapshots from the catalog; the engine
// selects among them and never mutates them.
type Variant struct {
	ID        string
	ProductID string
	Title     string

	Attributes Attributes
	Type       VariantType
	Status     VariantStatus

	// Price in base currency units.
	Price float64

	// Quantity is the variant's own stock count. When an active discount or
	// pre-order event is attached, the event-scoped pool takes precedence.
	Quantity int

	Discount *ProductDiscount
	PreOrder *PreOrder
}

// EffectiveStock resolves the variant's stock hierarchy at the given time:
// event-scoped stock while a discount or pre-order event is running,
// otherwise the variant's own count.
func (v Variant) EffectiveStock(now time.Time) int {
	if v.Discount.ActiveAt(now) {
		return v.Discount.Quantity
	}
	if v.PreOrder.ActiveAt(now) {
		return v.PreOrder.Quantity
	}
	return v.Quantity
}

// MaxOrderQuantity returns the largest quantity a single order may hold:
// effective stock, further capped by the discount event's per-order limit.
func (v Variant) MaxOrderQuantity(now time.Time) int {
	max := v.EffectiveStock(now)
	if v.Discount.ActiveAt(now) && v.Discount.MaxPerOrder > 0 && v.Discount.MaxPerOrder < max {
		max = v.Discount.MaxPerOrder
	}
	return max
}

// Product groups a brand's variants under one catalog entry.
type Product struct {
	ID       string
	BrandID  string
	Name     string
	Status   ProductStatus
	Variants []Variant
}

// Purchasable reports the product-level gate: the product itself must be
// active and at least one variant must be active.
func (p Product) Purchasable() bool {
	if p.Status != ProductStatusActive {
		return false
	}
	for _, v := range p.Variants {
		if v.Status == VariantStatusActive {
			return true
		}
	}
	return false
}
