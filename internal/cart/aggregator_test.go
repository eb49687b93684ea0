package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emblashop/embla/internal/cart"
	"github.com/emblashop/embla/internal/domain"
)

func testLines() []domain.CartLine {
	return []domain.CartLine{
		{ID: "l1", BrandID: "x", VariantID: "v1", Quantity: 1, UnitPrice: 100, Selected: true},
		{ID: "l2", BrandID: "x", VariantID: "v2", Quantity: 1, UnitPrice: 200, Selected: true},
		{ID: "l3", BrandID: "y", VariantID: "v3", Quantity: 2, UnitPrice: 50, Selected: false},
	}
}

func TestAggregator_SeedsFromPersistedFlags(t *testing.T) {
	a := cart.NewAggregator(testLines())

	assert.Equal(t, []string{"l1", "l2"}, a.SelectedLineIDs())
	assert.True(t, a.IsSelected("l1"))
	assert.False(t, a.IsSelected("l3"))
}

func TestAggregator_ToggleLine(t *testing.T) {
	a := cart.NewAggregator(testLines())

	a.ToggleLine("l3")
	assert.True(t, a.IsSelected("l3"))

	a.ToggleLine("l3")
	assert.False(t, a.IsSelected("l3"))

	// Stale ids no-op instead of corrupting state.
	a.ToggleLine("ghost")
	assert.Equal(t, []string{"l1", "l2"}, a.SelectedLineIDs())
}

func TestAggregator_ToggleBrand(t *testing.T) {
	a := cart.NewAggregator(testLines())
	require.Equal(t, cart.BrandSelectionAll, a.BrandSelectionState("x"))

	// All selected -> deselect all.
	a.ToggleBrand("x")
	assert.Equal(t, cart.BrandSelectionNone, a.BrandSelectionState("x"))

	// Partially selected -> select all.
	a.ToggleLine("l1")
	require.Equal(t, cart.BrandSelectionSome, a.BrandSelectionState("x"))
	a.ToggleBrand("x")
	assert.Equal(t, cart.BrandSelectionAll, a.BrandSelectionState("x"))

	// Unknown brand no-ops.
	a.ToggleBrand("ghost")
	assert.Equal(t, cart.BrandSelectionAll, a.BrandSelectionState("x"))
}

func TestAggregator_Subtotals(t *testing.T) {
	a := cart.NewAggregator(testLines())

	assert.InDelta(t, 300, a.SubtotalForBrand("x"), 1e-9)
	assert.InDelta(t, 0, a.SubtotalForBrand("y"), 1e-9)
	assert.InDelta(t, 300, a.SubtotalPlatform(), 1e-9)

	a.ToggleLine("l3")
	assert.InDelta(t, 100, a.SubtotalForBrand("y"), 1e-9)
	assert.InDelta(t, 400, a.SubtotalPlatform(), 1e-9)
}

func TestAggregator_SubtotalUsesLineDiscountContext(t *testing.T) {
	lines := testLines()
	lines[0].DiscountKind = domain.DiscountPercentage
	lines[0].DiscountValue = 0.5

	a := cart.NewAggregator(lines)
	assert.InDelta(t, 250, a.SubtotalForBrand("x"), 1e-9)
}

func TestAggregator_SelectionSubsetInvariant(t *testing.T) {
	lines := testLines()
	a := cart.NewAggregator(lines)
	a.ToggleLine("l3")

	// A line removed from the cart must also leave the selected set.
	a.SetLines(lines[:2])

	ids := a.SelectedLineIDs()
	assert.NotContains(t, ids, "l3")
	for _, id := range ids {
		assert.Contains(t, []string{"l1", "l2"}, id)
	}
}

func TestAggregator_BrandVoucherClearedOnEmptySelection(t *testing.T) {
	a := cart.NewAggregator(testLines())
	a.ChooseVoucher("x", "voucher-1")

	_, ok := a.ChosenVoucher("x")
	require.True(t, ok)

	// Deselecting one line keeps the voucher; the brand subtotal is nonzero.
	a.ToggleLine("l1")
	_, ok = a.ChosenVoucher("x")
	assert.True(t, ok)

	// Deselecting the last line of the brand clears its voucher.
	a.ToggleLine("l2")
	_, ok = a.ChosenVoucher("x")
	assert.False(t, ok)
}

func TestAggregator_PlatformVoucherClearedAtZeroSelection(t *testing.T) {
	a := cart.NewAggregator(testLines())
	a.ChooseVoucher(cart.PlatformBrandID, "platform-1")

	a.ToggleBrand("x")
	assert.InDelta(t, 0, a.SubtotalPlatform(), 1e-9)

	_, ok := a.ChosenVoucher(cart.PlatformBrandID)
	assert.False(t, ok)
}

func TestAggregator_BrandSubtotalDropTriggersVoucherIneligibility(t *testing.T) {
	// Two lines at 100 and 200, both selected, a brand voucher with a 250
	// minimum: deselecting one drops the subtotal below the minimum. The
	// aggregator reports the new subtotal; eligibility itself is the voucher
	// evaluator's call, re-run by the service on every selection change.
	a := cart.NewAggregator(testLines())
	require.InDelta(t, 300, a.SubtotalForBrand("x"), 1e-9)

	a.ToggleLine("l2")
	assert.InDelta(t, 100, a.SubtotalForBrand("x"), 1e-9)
}

func TestAggregator_ClearVoucherChoice(t *testing.T) {
	a := cart.NewAggregator(testLines())
	a.ChooseVoucher("x", "voucher-1")
	a.ChooseVoucher("x", "")

	_, ok := a.ChosenVoucher("x")
	assert.False(t, ok)
}

func TestAggregator_SelectedVariantIDs(t *testing.T) {
	a := cart.NewAggregator(testLines())

	assert.Equal(t, []string{"v1", "v2"}, a.SelectedVariantIDsForBrand("x"))
	assert.Empty(t, a.SelectedVariantIDsForBrand("y"))
	assert.Equal(t, []string{"v1", "v2"}, a.SelectedVariantIDs())
}
