package service

import (
	"context"
	"time"

	"github.com/emblashop/embla/internal/classification"
	"github.com/emblashop/embla/internal/domain"
)

// CatalogService provides product detail and stateless variant resolution
// for the picker screens. The mobile client sends its current attribute
// assignment on every tap; resolution is recomputed from scratch each time,
// which is cheap at catalog sizes of a few hundred variants per product.
type CatalogService interface {
	// GetProductDetail returns a product with its option matrix.
	GetProductDetail(ctx context.Context, productID string) (*ProductDetail, error)

	// ResolveSelection resolves a full or partial attribute assignment
	// against the product's variant set.
	ResolveSelection(ctx context.Context, productID string, selection domain.Attributes, committedVariantID string) (*Resolution, error)
}

// OptionValue is one tappable value in the classification picker.
type OptionValue struct {
	Value string

	// Selectable gates whether the button is tappable: some variant
	// consistent with the other fixed axes plus this value is purchasable.
	// A selected-but-unavailable value still renders, disabled.
	Selectable bool

	// Selected marks the value currently held on this axis.
	Selected bool
}

// AttributeOptions is the option row for one attribute axis.
type AttributeOptions struct {
	Key    domain.AttributeKey
	Values []OptionValue
}

// ProductDetail is a product with its full option matrix.
type ProductDetail struct {
	Product     domain.Product
	Options     []AttributeOptions
	Purchasable bool
}

// Resolution is the outcome of resolving an attribute assignment.
type Resolution struct {
	State     classification.State
	Selection domain.Attributes

	// Variant is set only when State is StateMatched.
	Variant *domain.Variant

	// Purchasable reports whether the matched variant passes the
	// purchasability predicate; false while unmatched.
	Purchasable bool

	// MaxQuantity is the per-order quantity bound for the matched variant
	// (stock, further capped by an active discount event); 0 while unmatched.
	MaxQuantity int

	Options []AttributeOptions
}

type catalogService struct {
	store CatalogStore
	now   func() time.Time
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(store CatalogStore) CatalogService {
	return &catalogService{
		store: store,
		now:   time.Now,
	}
}

// GetProductDetail returns a product with its option matrix.
func (s *catalogService) GetProductDetail(ctx context.Context, productID string) (*ProductDetail, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	index := classification.NewIndex(product.Variants)
	resolver := classification.NewResolver(*product, index, nil)

	return &ProductDetail{
		Product:     *product,
		Options:     buildOptions(resolver, s.now()),
		Purchasable: product.Purchasable(),
	}, nil
}

// ResolveSelection resolves an attribute assignment against the product's
// variant set and reports per-axis selectability for the picker.
func (s *catalogService) ResolveSelection(ctx context.Context, productID string, selection domain.Attributes, committedVariantID string) (*Resolution, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	index := classification.NewIndex(product.Variants)

	var committed *domain.Variant
	if committedVariantID != "" {
		for i := range product.Variants {
			if product.Variants[i].ID == committedVariantID {
				committed = &product.Variants[i]
				break
			}
		}
	}

	resolver := classification.NewResolver(*product, index, committed)

	// Replay the client-held assignment onto the seeded resolver. Setting
	// each axis directly (rather than toggling) makes resolution a pure
	// function of the submitted selection.
	for _, key := range domain.AttributeKeys {
		if current, want := resolver.Selection().Get(key), selection.Get(key); current != want {
			resolver.Select(key, want)
		}
	}

	now := s.now()
	res := &Resolution{
		State:     resolver.State(),
		Selection: resolver.Selection(),
		Options:   buildOptions(resolver, now),
	}

	if matched, ok := resolver.Matched(); ok {
		res.Variant = &matched
		res.Purchasable = resolver.IsSelectable(matched, now)
		res.MaxQuantity = matched.MaxOrderQuantity(now)
	}

	return res, nil
}

// buildOptions renders the per-axis option rows with selectability flags.
func buildOptions(r *classification.Resolver, now time.Time) []AttributeOptions {
	var rows []AttributeOptions
	for _, key := range r.Index().ConstrainedKeys() {
		values := r.Index().Options(key)
		row := AttributeOptions{Key: key, Values: make([]OptionValue, 0, len(values))}
		for _, value := range values {
			row.Values = append(row.Values, OptionValue{
				Value:      value,
				Selectable: r.ValueSelectable(key, value, now),
				Selected:   r.Selection().Get(key) == value,
			})
		}
		rows = append(rows, row)
	}
	return rows
}
