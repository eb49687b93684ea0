package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emblashop/embla/internal/cart"
	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/service"
)

func newCartFixture(t *testing.T) (service.CartService, *fakeCartStore, *fakeVoucherStore, *fakePublisher, string) {
	t.Helper()

	store := newFakeCartStore()
	catalog := newFakeCatalogStore(shirtProduct(), mugProduct())
	vouchers := &fakeVoucherStore{}
	publisher := &fakePublisher{}

	svc := service.NewCartService(store, catalog, vouchers, publisher)

	crt, err := store.GetOrCreateCart(context.Background(), "session-1")
	require.NoError(t, err)

	return svc, store, vouchers, publisher, crt.ID
}

func TestCartService_AddLine_SnapshotsPriceAndDiscount(t *testing.T) {
	svc, _, _, _, cartID := newCartFixture(t)

	summary, err := svc.AddLine(context.Background(), cartID, "v-blue", 1)
	require.NoError(t, err)

	require.Len(t, summary.Brands, 1)
	group := summary.Brands[0]
	require.Len(t, group.Lines, 1)

	line := group.Lines[0]
	assert.Equal(t, "v-blue", line.VariantID)
	assert.Equal(t, "brand-a", line.BrandID)
	assert.True(t, line.Selected)
	assert.InDelta(t, 120, line.UnitPrice, 1e-9)
	assert.Equal(t, domain.DiscountPercentage, line.DiscountKind)
	assert.InDelta(t, 0.5, line.DiscountValue, 1e-9)

	// 50% off 120 = 60 per unit.
	assert.InDelta(t, 60, group.Subtotal, 1e-9)
	assert.InDelta(t, 60, summary.SubtotalPlatform, 1e-9)
	assert.Equal(t, 1, summary.SelectedCount)
}

func TestCartService_AddLine_ClampsToPerOrderCap(t *testing.T) {
	svc, _, _, _, cartID := newCartFixture(t)

	// The active discount event caps v-blue at 2 per order.
	summary, err := svc.AddLine(context.Background(), cartID, "v-blue", 5)
	require.NoError(t, err)

	require.Len(t, summary.Brands, 1)
	require.Len(t, summary.Brands[0].Lines, 1)
	assert.Equal(t, 2, summary.Brands[0].Lines[0].Quantity)
}

func TestCartService_AddLine_IncrementsExistingLine(t *testing.T) {
	svc, _, _, _, cartID := newCartFixture(t)

	_, err := svc.AddLine(context.Background(), cartID, "v-red", 2)
	require.NoError(t, err)

	summary, err := svc.AddLine(context.Background(), cartID, "v-red", 3)
	require.NoError(t, err)

	require.Len(t, summary.Brands, 1)
	require.Len(t, summary.Brands[0].Lines, 1)
	assert.Equal(t, 5, summary.Brands[0].Lines[0].Quantity)
}

func TestCartService_AddLine_Validation(t *testing.T) {
	svc, _, _, _, cartID := newCartFixture(t)

	_, err := svc.AddLine(context.Background(), cartID, "v-red", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.AddLine(context.Background(), cartID, "v-missing", 1)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestCartService_UpdateQuantity_PublishesEvent(t *testing.T) {
	svc, _, _, publisher, cartID := newCartFixture(t)

	summary, err := svc.AddLine(context.Background(), cartID, "v-red", 2)
	require.NoError(t, err)
	lineID := summary.Brands[0].Lines[0].ID

	summary, err = svc.UpdateQuantity(context.Background(), cartID, lineID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Brands[0].Lines[0].Quantity)

	require.Len(t, publisher.published, 1)
	ev, ok := publisher.published[0].(domain.QuantityChangedEvent)
	require.True(t, ok)
	assert.Equal(t, lineID, ev.LineID)
	assert.Equal(t, 2, ev.OldQuantity)
	assert.Equal(t, 4, ev.NewQuantity)
}

func TestCartService_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	svc, _, _, publisher, cartID := newCartFixture(t)

	summary, err := svc.AddLine(context.Background(), cartID, "v-red", 2)
	require.NoError(t, err)
	lineID := summary.Brands[0].Lines[0].ID

	summary, err = svc.UpdateQuantity(context.Background(), cartID, lineID, 0)
	require.NoError(t, err)
	assert.Empty(t, summary.Brands)

	require.Len(t, publisher.published, 1)
	ev, ok := publisher.published[0].(domain.LineRemovedEvent)
	require.True(t, ok)
	assert.Equal(t, lineID, ev.LineID)
	assert.Equal(t, 2, ev.Quantity)
}

func TestCartService_ChangeVariant_ResnapshotsAndClamps(t *testing.T) {
	svc, _, _, publisher, cartID := newCartFixture(t)

	summary, err := svc.AddLine(context.Background(), cartID, "v-red", 5)
	require.NoError(t, err)
	lineID := summary.Brands[0].Lines[0].ID

	summary, err = svc.ChangeVariant(context.Background(), cartID, lineID, "v-blue")
	require.NoError(t, err)

	line := summary.Brands[0].Lines[0]
	assert.Equal(t, "v-blue", line.VariantID)
	assert.InDelta(t, 120, line.UnitPrice, 1e-9)
	assert.Equal(t, domain.DiscountPercentage, line.DiscountKind)
	assert.Equal(t, 2, line.Quantity)

	require.Len(t, publisher.published, 1)
	ev, ok := publisher.published[0].(domain.VariantChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "v-red", ev.OldVariantID)
	assert.Equal(t, "v-blue", ev.NewVariantID)
	assert.Equal(t, 2, ev.Quantity)
}

func TestCartService_ChangeVariant_RejectsOtherProduct(t *testing.T) {
	svc, _, _, _, cartID := newCartFixture(t)

	summary, err := svc.AddLine(context.Background(), cartID, "v-red", 1)
	require.NoError(t, err)
	lineID := summary.Brands[0].Lines[0].ID

	_, err = svc.ChangeVariant(context.Background(), cartID, lineID, "v-mug")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestCartService_ToggleLine_PersistsSelection(t *testing.T) {
	svc, store, _, _, cartID := newCartFixture(t)

	summary, err := svc.AddLine(context.Background(), cartID, "v-red", 1)
	require.NoError(t, err)
	lineID := summary.Brands[0].Lines[0].ID

	summary, err = svc.ToggleLine(context.Background(), cartID, lineID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.SelectedCount)
	assert.Equal(t, cart.BrandSelectionNone, summary.Brands[0].Selection)

	lines, err := store.ListLines(context.Background(), cartID)
	require.NoError(t, err)
	assert.False(t, lines[0].Selected)

	summary, err = svc.ToggleLine(context.Background(), cartID, lineID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SelectedCount)
}

func TestCartService_ToggleBrand_FlipsAllBrandLines(t *testing.T) {
	svc, store, _, _, cartID := newCartFixture(t)

	_, err := svc.AddLine(context.Background(), cartID, "v-red", 1)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), cartID, "v-blue", 1)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), cartID, "v-mug", 1)
	require.NoError(t, err)

	summary, err := svc.ToggleBrand(context.Background(), cartID, "brand-a")
	require.NoError(t, err)

	for _, group := range summary.Brands {
		if group.BrandID == "brand-a" {
			assert.Equal(t, cart.BrandSelectionNone, group.Selection)
		} else {
			assert.Equal(t, cart.BrandSelectionAll, group.Selection)
		}
	}
	assert.Equal(t, 1, summary.SelectedCount)

	lines, err := store.ListLines(context.Background(), cartID)
	require.NoError(t, err)
	for _, ln := range lines {
		assert.Equal(t, ln.BrandID != "brand-a", ln.Selected)
	}
}

func TestCartService_Summary_SuggestsBestVoucher(t *testing.T) {
	svc, _, vouchers, _, cartID := newCartFixture(t)

	small := testVoucher("v-small", domain.VoucherScopeBrand, "brand-a")
	big := testVoucher("v-big", domain.VoucherScopeBrand, "brand-a")
	big.DiscountValue = 25
	vouchers.vouchers = []domain.Voucher{small, big}

	summary, err := svc.AddLine(context.Background(), cartID, "v-red", 1)
	require.NoError(t, err)

	require.Len(t, summary.Brands, 1)
	best := summary.Brands[0].BestVoucher
	require.NotNil(t, best)
	assert.Equal(t, "v-big", best.Voucher.ID)
	assert.InDelta(t, 25, best.Evaluation.DiscountAmount, 1e-9)
}

func TestCartService_Summary_ClearsInvalidatedChoice(t *testing.T) {
	svc, store, vouchers, _, cartID := newCartFixture(t)

	vouchers.vouchers = []domain.Voucher{testVoucher("v-1", domain.VoucherScopeBrand, "brand-a")}

	summary, err := svc.AddLine(context.Background(), cartID, "v-red", 1)
	require.NoError(t, err)
	lineID := summary.Brands[0].Lines[0].ID

	require.NoError(t, store.SetChosenVoucher(context.Background(), cartID, "brand-a", "v-1"))

	// Deselecting the brand's only line drops its subtotal to zero, which
	// invalidates the stored voucher choice.
	summary, err = svc.ToggleLine(context.Background(), cartID, lineID)
	require.NoError(t, err)
	assert.Empty(t, summary.Brands[0].ChosenVoucherID)

	chosen, err := store.ListChosenVouchers(context.Background(), cartID)
	require.NoError(t, err)
	assert.Empty(t, chosen)
}
