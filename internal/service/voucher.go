package service

import (
	"context"
	"time"

	"github.com/emblashop/embla/internal/cart"
	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/voucher"
)

// VoucherService lists vouchers for a scope annotated with a local
// re-evaluation against the cart's current selected subtotal, and records
// the shopper's choice per scope.
type VoucherService interface {
	// ListForBrand returns the brand's vouchers evaluated against the
	// cart's selected subtotal for that brand.
	ListForBrand(ctx context.Context, cartID, brandID string) ([]AnnotatedVoucher, error)

	// ListPlatform returns platform vouchers evaluated against the cart's
	// platform-wide selected subtotal.
	ListPlatform(ctx context.Context, cartID string) ([]AnnotatedVoucher, error)

	// Choose applies a voucher for a scope after re-validating eligibility.
	// An empty voucherID clears the choice. brandID is empty for the
	// platform scope.
	Choose(ctx context.Context, cartID, brandID, voucherID string) error
}

// AnnotatedVoucher pairs a voucher snapshot with its local evaluation.
type AnnotatedVoucher struct {
	Voucher    domain.Voucher
	Evaluation voucher.Evaluation

	// Best marks the single voucher the selector would pick for this scope.
	Best bool
}

type voucherService struct {
	store   VoucherStore
	cartSvc CartStore
	now     func() time.Time
}

// NewVoucherService creates a new VoucherService instance.
func NewVoucherService(store VoucherStore, carts CartStore) VoucherService {
	return &voucherService{
		store:   store,
		cartSvc: carts,
		now:     time.Now,
	}
}

// ListForBrand returns the brand's vouchers with local evaluations.
func (s *voucherService) ListForBrand(ctx context.Context, cartID, brandID string) ([]AnnotatedVoucher, error) {
	vouchers, err := s.store.ListBrandVouchers(ctx, brandID)
	if err != nil {
		return nil, err
	}

	agg, err := s.aggregator(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return annotate(vouchers, agg.SubtotalForBrand(brandID), agg.SelectedVariantIDsForBrand(brandID), s.now()), nil
}

// ListPlatform returns platform vouchers with local evaluations.
func (s *voucherService) ListPlatform(ctx context.Context, cartID string) ([]AnnotatedVoucher, error) {
	vouchers, err := s.store.ListPlatformVouchers(ctx)
	if err != nil {
		return nil, err
	}

	agg, err := s.aggregator(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return annotate(vouchers, agg.SubtotalPlatform(), agg.SelectedVariantIDs(), s.now()), nil
}

// Choose applies a voucher for a scope after re-validating eligibility.
func (s *voucherService) Choose(ctx context.Context, cartID, brandID, voucherID string) error {
	if voucherID == "" {
		return s.cartSvc.SetChosenVoucher(ctx, cartID, brandID, "")
	}

	v, err := s.store.GetVoucher(ctx, voucherID)
	if err != nil {
		return err
	}

	// Scope consistency: a brand voucher only applies to its own brand.
	if v.Scope == domain.VoucherScopeBrand && v.BrandID != brandID {
		return domain.Invalid("voucher.choose", "voucher does not apply to this brand")
	}
	if v.Scope == domain.VoucherScopePlatform && brandID != cart.PlatformBrandID {
		return domain.Invalid("voucher.choose", "platform voucher cannot be applied to a brand")
	}

	agg, err := s.aggregator(ctx, cartID)
	if err != nil {
		return err
	}

	subtotal := agg.SubtotalPlatform()
	selected := agg.SelectedVariantIDs()
	if v.Scope == domain.VoucherScopeBrand {
		subtotal = agg.SubtotalForBrand(brandID)
		selected = agg.SelectedVariantIDsForBrand(brandID)
	}

	eval := voucher.Evaluate(*v, subtotal, selected, s.now())
	if !eval.Eligible {
		return domain.Errorf(domain.EINVALID, "voucher.choose", "voucher is not eligible: %s", eval.Reason)
	}

	return s.cartSvc.SetChosenVoucher(ctx, cartID, brandID, voucherID)
}

func (s *voucherService) aggregator(ctx context.Context, cartID string) (*cart.Aggregator, error) {
	lines, err := s.cartSvc.ListLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return cart.NewAggregator(lines), nil
}

func annotate(vouchers []domain.Voucher, subtotal float64, selected []string, now time.Time) []AnnotatedVoucher {
	best := voucher.PickBest(vouchers, subtotal, selected, now)

	out := make([]AnnotatedVoucher, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, AnnotatedVoucher{
			Voucher:    v,
			Evaluation: voucher.Evaluate(v, subtotal, selected, now),
			Best:       best != nil && best.Voucher.ID == v.ID,
		})
	}
	return out
}
