package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/events"
)

// In-memory store fakes backing the service tests.

type fakeCatalogStore struct {
	products map[string]domain.Product
	variants map[string]domain.Variant
}

func newFakeCatalogStore(products ...domain.Product) *fakeCatalogStore {
	s := &fakeCatalogStore{
		products: make(map[string]domain.Product),
		variants: make(map[string]domain.Variant),
	}
	for _, p := range products {
		s.products[p.ID] = p
		for _, v := range p.Variants {
			s.variants[v.ID] = v
		}
	}
	return s
}

func (s *fakeCatalogStore) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, domain.NotFound("catalog.get_product", "Product", productID)
	}
	return &p, nil
}

func (s *fakeCatalogStore) GetVariant(_ context.Context, variantID string) (*domain.Variant, error) {
	v, ok := s.variants[variantID]
	if !ok {
		return nil, domain.ErrVariantNotFound
	}
	return &v, nil
}

type fakeVoucherStore struct {
	vouchers []domain.Voucher
}

func (s *fakeVoucherStore) ListBrandVouchers(_ context.Context, brandID string) ([]domain.Voucher, error) {
	var out []domain.Voucher
	for _, v := range s.vouchers {
		if v.Scope == domain.VoucherScopeBrand && v.BrandID == brandID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVoucherStore) ListPlatformVouchers(_ context.Context) ([]domain.Voucher, error) {
	var out []domain.Voucher
	for _, v := range s.vouchers {
		if v.Scope == domain.VoucherScopePlatform {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVoucherStore) GetVoucher(_ context.Context, voucherID string) (*domain.Voucher, error) {
	for _, v := range s.vouchers {
		if v.ID == voucherID {
			out := v
			return &out, nil
		}
	}
	return nil, domain.NotFound("voucher.get", "Voucher", voucherID)
}

type fakeCartStore struct {
	carts  map[string]domain.Cart
	lines  []domain.CartLine
	chosen []domain.ChosenVoucher
	nextID int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]domain.Cart)}
}

func (s *fakeCartStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *fakeCartStore) GetOrCreateCart(_ context.Context, sessionID string) (*domain.Cart, error) {
	for _, c := range s.carts {
		if c.SessionID == sessionID {
			out := c
			return &out, nil
		}
	}
	c := domain.Cart{ID: s.id("cart"), SessionID: sessionID}
	s.carts[c.ID] = c
	return &c, nil
}

func (s *fakeCartStore) GetCart(_ context.Context, cartID string) (*domain.Cart, error) {
	c, ok := s.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return &c, nil
}

func (s *fakeCartStore) ListLines(_ context.Context, cartID string) ([]domain.CartLine, error) {
	var out []domain.CartLine
	for _, ln := range s.lines {
		if ln.CartID == cartID {
			out = append(out, ln)
		}
	}
	return out, nil
}

func (s *fakeCartStore) GetLine(_ context.Context, cartID, lineID string) (*domain.CartLine, error) {
	for _, ln := range s.lines {
		if ln.CartID == cartID && ln.ID == lineID {
			out := ln
			return &out, nil
		}
	}
	return nil, domain.ErrCartLineNotFound
}

func (s *fakeCartStore) AddLine(_ context.Context, line domain.CartLine) (*domain.CartLine, error) {
	for i, ln := range s.lines {
		if ln.CartID == line.CartID && ln.VariantID == line.VariantID {
			s.lines[i].Quantity += line.Quantity
			s.lines[i].Selected = line.Selected
			s.lines[i].UnitPrice = line.UnitPrice
			s.lines[i].DiscountKind = line.DiscountKind
			s.lines[i].DiscountValue = line.DiscountValue
			out := s.lines[i]
			return &out, nil
		}
	}
	line.ID = s.id("line")
	s.lines = append(s.lines, line)
	return &line, nil
}

func (s *fakeCartStore) UpdateLine(_ context.Context, line domain.CartLine) error {
	for i, ln := range s.lines {
		if ln.CartID == line.CartID && ln.ID == line.ID {
			s.lines[i] = line
			return nil
		}
	}
	return domain.ErrCartLineNotFound
}

func (s *fakeCartStore) RemoveLine(_ context.Context, cartID, lineID string) error {
	for i, ln := range s.lines {
		if ln.CartID == cartID && ln.ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrCartLineNotFound
}

func (s *fakeCartStore) SetSelection(_ context.Context, cartID string, lineIDs []string, selected bool) error {
	for _, id := range lineIDs {
		for i, ln := range s.lines {
			if ln.CartID == cartID && ln.ID == id {
				s.lines[i].Selected = selected
			}
		}
	}
	return nil
}

func (s *fakeCartStore) ListChosenVouchers(_ context.Context, cartID string) ([]domain.ChosenVoucher, error) {
	var out []domain.ChosenVoucher
	for _, c := range s.chosen {
		if c.CartID == cartID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCartStore) SetChosenVoucher(_ context.Context, cartID, brandID, voucherID string) error {
	for i, c := range s.chosen {
		if c.CartID == cartID && c.BrandID == brandID {
			if voucherID == "" {
				s.chosen = append(s.chosen[:i], s.chosen[i+1:]...)
			} else {
				s.chosen[i].VoucherID = voucherID
			}
			return nil
		}
	}
	if voucherID != "" {
		s.chosen = append(s.chosen, domain.ChosenVoucher{CartID: cartID, BrandID: brandID, VoucherID: voucherID})
	}
	return nil
}

type fakePublisher struct {
	published []events.Event
}

func (p *fakePublisher) Publish(ev events.Event) {
	p.published = append(p.published, ev)
}

// Fixtures. The services read the wall clock, so event and voucher windows
// are built around time.Now.

func shirtProduct() domain.Product {
	start, end := activeWindow()
	return domain.Product{
		ID:      "prod-shirt",
		BrandID: "brand-a",
		Name:    "Crew Shirt",
		Status:  domain.ProductStatusActive,
		Variants: []domain.Variant{
			{
				ID:         "v-red",
				ProductID:  "prod-shirt",
				Attributes: domain.Attributes{Color: "red"},
				Type:       domain.VariantTypeCustom,
				Status:     domain.VariantStatusActive,
				Price:      100,
				Quantity:   10,
			},
			{
				ID:         "v-blue",
				ProductID:  "prod-shirt",
				Attributes: domain.Attributes{Color: "blue"},
				Type:       domain.VariantTypeCustom,
				Status:     domain.VariantStatusActive,
				Price:      120,
				Quantity:   5,
				Discount: &domain.ProductDiscount{
					ID:            "disc-blue",
					DiscountKind:  domain.DiscountPercentage,
					DiscountValue: 0.5,
					Quantity:      3,
					MaxPerOrder:   2,
					StartTime:     start,
					EndTime:       end,
				},
			},
		},
	}
}

func mugProduct() domain.Product {
	return domain.Product{
		ID:      "prod-mug",
		BrandID: "brand-b",
		Name:    "Camp Mug",
		Status:  domain.ProductStatusActive,
		Variants: []domain.Variant{
			{
				ID:        "v-mug",
				ProductID: "prod-mug",
				Type:      domain.VariantTypeDefault,
				Status:    domain.VariantStatusActive,
				Price:     30,
				Quantity:  20,
			},
		},
	}
}

func testVoucher(id string, scope domain.VoucherScope, brandID string) domain.Voucher {
	start, end := activeWindow()
	return domain.Voucher{
		ID:            id,
		Scope:         scope,
		BrandID:       brandID,
		DiscountKind:  domain.DiscountAmount,
		DiscountValue: 10,
		ApplyType:     domain.VoucherApplyAll,
		StartTime:     start,
		EndTime:       end,
		Status:        domain.VoucherStatusAvailable,
	}
}

func activeWindow() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-time.Hour), now.Add(time.Hour)
}
