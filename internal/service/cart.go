package service

import (
	"context"
	"time"

	"github.com/emblashop/embla/internal/cart"
	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/events"
	"github.com/emblashop/embla/internal/voucher"
)

// EventPublisher receives cart commit events after the local state change
// has been persisted. The request path never blocks on delivery.
type EventPublisher interface {
	Publish(ev events.Event)
}

// CartService provides business logic for cart operations: line CRUD with
// stock clamping, checkout selection tracking, and the aggregated summary
// the cart screen renders.
type CartService interface {
	// GetOrCreateCart retrieves the cart bound to a device session,
	// creating it on first use.
	GetOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error)

	// AddLine adds a variant to the cart or increments its quantity.
	// Quantity is clamped to the variant's per-order bound.
	AddLine(ctx context.Context, cartID, variantID string, quantity int) (*CartSummary, error)

	// UpdateQuantity changes a line's quantity, clamped to the per-order
	// bound. A quantity of 0 removes the line.
	UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (*CartSummary, error)

	// ChangeVariant swaps a line to a different variant of the same product
	// after the shopper committed a new classification in the picker.
	ChangeVariant(ctx context.Context, cartID, lineID, newVariantID string) (*CartSummary, error)

	// RemoveLine deletes a line from the cart.
	RemoveLine(ctx context.Context, cartID, lineID string) (*CartSummary, error)

	// ToggleLine flips one line's checkout selection.
	ToggleLine(ctx context.Context, cartID, lineID string) (*CartSummary, error)

	// ToggleBrand flips a whole brand's checkout selection.
	ToggleBrand(ctx context.Context, cartID, brandID string) (*CartSummary, error)

	// GetSummary returns the cart with per-brand grouping, subtotals,
	// voucher choices and best-voucher suggestions.
	GetSummary(ctx context.Context, cartID string) (*CartSummary, error)
}

// BrandGroup is one brand's slice of the cart summary.
type BrandGroup struct {
	BrandID   string
	Selection cart.BrandSelection
	Lines     []domain.CartLine
	Subtotal  float64

	// ChosenVoucherID is the shopper's applied brand voucher after
	// invalidation; empty when none survives.
	ChosenVoucherID string

	// BestVoucher is the suggested voucher for the brand's current selected
	// subtotal, nil when none is eligible.
	BestVoucher *voucher.Best
}

// CartSummary aggregates the cart with selection state and totals.
type CartSummary struct {
	Cart          domain.Cart
	Brands        []BrandGroup
	SelectedCount int

	SubtotalPlatform float64

	PlatformVoucherID   string
	BestPlatformVoucher *voucher.Best
}

type cartService struct {
	store    CartStore
	catalog  CatalogStore
	vouchers VoucherStore
	events   EventPublisher
	now      func() time.Time
}

// NewCartService creates a new CartService instance.
func NewCartService(store CartStore, catalog CatalogStore, vouchers VoucherStore, publisher EventPublisher) CartService {
	return &cartService{
		store:    store,
		catalog:  catalog,
		vouchers: vouchers,
		events:   publisher,
		now:      time.Now,
	}
}

// GetOrCreateCart retrieves or creates the cart for a device session.
func (s *cartService) GetOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.store.GetOrCreateCart(ctx, sessionID)
}

// AddLine adds a variant to the cart or increments its quantity.
func (s *cartService) AddLine(ctx context.Context, cartID, variantID string, quantity int) (*CartSummary, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	variant, err := s.catalog.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProduct(ctx, variant.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Purchasable() || variant.Status != domain.VariantStatusActive {
		return nil, domain.Invalid("cart.add_line", "variant is not purchasable")
	}

	now := s.now()
	max := variant.MaxOrderQuantity(now)
	if max <= 0 {
		return nil, domain.ErrStockExceeded
	}
	if quantity > max {
		quantity = max
	}

	line := domain.CartLine{
		CartID:    cartID,
		BrandID:   product.BrandID,
		ProductID: variant.ProductID,
		VariantID: variant.ID,
		Quantity:  quantity,
		Selected:  true,
		UnitPrice: variant.Price,
	}
	if variant.Discount.ActiveAt(now) {
		line.DiscountKind = variant.Discount.DiscountKind
		line.DiscountValue = variant.Discount.DiscountValue
	}

	if _, err := s.store.AddLine(ctx, line); err != nil {
		return nil, err
	}

	return s.GetSummary(ctx, cartID)
}

// UpdateQuantity changes a line's quantity; 0 removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (*CartSummary, error) {
	if quantity == 0 {
		return s.RemoveLine(ctx, cartID, lineID)
	}
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	line, err := s.store.GetLine(ctx, cartID, lineID)
	if err != nil {
		return nil, err
	}

	variant, err := s.catalog.GetVariant(ctx, line.VariantID)
	if err != nil {
		return nil, err
	}

	max := variant.MaxOrderQuantity(s.now())
	if max <= 0 {
		return nil, domain.ErrStockExceeded
	}
	if quantity > max {
		quantity = max
	}

	oldQuantity := line.Quantity
	line.Quantity = quantity
	if err := s.store.UpdateLine(ctx, *line); err != nil {
		return nil, err
	}

	s.events.Publish(domain.QuantityChangedEvent{
		CartID:      cartID,
		LineID:      lineID,
		VariantID:   line.VariantID,
		OldQuantity: oldQuantity,
		NewQuantity: quantity,
	})

	return s.GetSummary(ctx, cartID)
}

// ChangeVariant swaps a line to a different variant of the same product.
func (s *cartService) ChangeVariant(ctx context.Context, cartID, lineID, newVariantID string) (*CartSummary, error) {
	line, err := s.store.GetLine(ctx, cartID, lineID)
	if err != nil {
		return nil, err
	}
	if line.VariantID == newVariantID {
		return s.GetSummary(ctx, cartID)
	}

	variant, err := s.catalog.GetVariant(ctx, newVariantID)
	if err != nil {
		return nil, err
	}
	if variant.ProductID != line.ProductID {
		return nil, domain.Invalid("cart.change_variant", "variant belongs to a different product")
	}
	if variant.Status != domain.VariantStatusActive {
		return nil, domain.Invalid("cart.change_variant", "variant is not purchasable")
	}

	now := s.now()
	max := variant.MaxOrderQuantity(now)
	if max <= 0 {
		return nil, domain.ErrStockExceeded
	}

	oldVariantID := line.VariantID
	line.VariantID = variant.ID
	line.UnitPrice = variant.Price
	line.DiscountKind = ""
	line.DiscountValue = 0
	if variant.Discount.ActiveAt(now) {
		line.DiscountKind = variant.Discount.DiscountKind
		line.DiscountValue = variant.Discount.DiscountValue
	}
	if line.Quantity > max {
		line.Quantity = max
	}

	if err := s.store.UpdateLine(ctx, *line); err != nil {
		return nil, err
	}

	s.events.Publish(domain.VariantChangedEvent{
		CartID:       cartID,
		LineID:       lineID,
		OldVariantID: oldVariantID,
		NewVariantID: variant.ID,
		Quantity:     line.Quantity,
	})

	return s.GetSummary(ctx, cartID)
}

// RemoveLine deletes a line from the cart.
func (s *cartService) RemoveLine(ctx context.Context, cartID, lineID string) (*CartSummary, error) {
	line, err := s.store.GetLine(ctx, cartID, lineID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RemoveLine(ctx, cartID, lineID); err != nil {
		return nil, err
	}

	s.events.Publish(domain.LineRemovedEvent{
		CartID:    cartID,
		LineID:    lineID,
		VariantID: line.VariantID,
		Quantity:  line.Quantity,
	})

	return s.GetSummary(ctx, cartID)
}

// ToggleLine flips one line's checkout selection.
func (s *cartService) ToggleLine(ctx context.Context, cartID, lineID string) (*CartSummary, error) {
	agg, err := s.loadAggregator(ctx, cartID)
	if err != nil {
		return nil, err
	}

	agg.ToggleLine(lineID)

	if err := s.store.SetSelection(ctx, cartID, []string{lineID}, agg.IsSelected(lineID)); err != nil {
		return nil, err
	}

	return s.summarize(ctx, cartID, agg)
}

// ToggleBrand flips a whole brand's checkout selection.
func (s *cartService) ToggleBrand(ctx context.Context, cartID, brandID string) (*CartSummary, error) {
	agg, err := s.loadAggregator(ctx, cartID)
	if err != nil {
		return nil, err
	}

	agg.ToggleBrand(brandID)

	var brandLineIDs []string
	selected := false
	for _, ln := range agg.Lines() {
		if ln.BrandID == brandID {
			brandLineIDs = append(brandLineIDs, ln.ID)
			selected = ln.Selected
		}
	}
	if len(brandLineIDs) > 0 {
		if err := s.store.SetSelection(ctx, cartID, brandLineIDs, selected); err != nil {
			return nil, err
		}
	}

	return s.summarize(ctx, cartID, agg)
}

// GetSummary returns the aggregated cart view.
func (s *cartService) GetSummary(ctx context.Context, cartID string) (*CartSummary, error) {
	agg, err := s.loadAggregator(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, cartID, agg)
}

// loadAggregator rebuilds the selection aggregator from the persisted cart
// snapshot, seeding voucher choices so stale ones get pruned.
func (s *cartService) loadAggregator(ctx context.Context, cartID string) (*cart.Aggregator, error) {
	lines, err := s.store.ListLines(ctx, cartID)
	if err != nil {
		return nil, err
	}

	agg := cart.NewAggregator(lines)

	chosen, err := s.store.ListChosenVouchers(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for _, c := range chosen {
		agg.ChooseVoucher(c.BrandID, c.VoucherID)
	}

	return agg, nil
}

// summarize builds the response view and clears any persisted voucher choice
// the aggregator invalidated (its scope lost the whole selected subtotal).
func (s *cartService) summarize(ctx context.Context, cartID string, agg *cart.Aggregator) (*CartSummary, error) {
	crt, err := s.store.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.ListChosenVouchers(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for _, c := range stored {
		if _, ok := agg.ChosenVoucher(c.BrandID); !ok {
			if err := s.store.SetChosenVoucher(ctx, cartID, c.BrandID, ""); err != nil {
				return nil, err
			}
		}
	}

	now := s.now()
	summary := &CartSummary{
		Cart:             *crt,
		SelectedCount:    len(agg.SelectedLineIDs()),
		SubtotalPlatform: agg.SubtotalPlatform(),
	}

	for _, brandID := range agg.BrandIDs() {
		group := BrandGroup{
			BrandID:   brandID,
			Selection: agg.BrandSelectionState(brandID),
			Subtotal:  agg.SubtotalForBrand(brandID),
		}
		for _, ln := range agg.Lines() {
			if ln.BrandID == brandID {
				group.Lines = append(group.Lines, ln)
			}
		}
		group.ChosenVoucherID, _ = agg.ChosenVoucher(brandID)

		brandVouchers, err := s.vouchers.ListBrandVouchers(ctx, brandID)
		if err != nil {
			return nil, err
		}
		group.BestVoucher = voucher.PickBest(brandVouchers, group.Subtotal, agg.SelectedVariantIDsForBrand(brandID), now)

		summary.Brands = append(summary.Brands, group)
	}

	summary.PlatformVoucherID, _ = agg.ChosenVoucher(cart.PlatformBrandID)

	platformVouchers, err := s.vouchers.ListPlatformVouchers(ctx)
	if err != nil {
		return nil, err
	}
	summary.BestPlatformVoucher = voucher.PickBest(platformVouchers, summary.SubtotalPlatform, agg.SelectedVariantIDs(), now)

	return summary, nil
}
