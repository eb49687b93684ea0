// Package cart tracks which cart lines are selected for checkout and
// aggregates selection at the brand and platform level. The aggregator is a
// pure state container owned by one screen's view-model; persistence happens
// through the surrounding service layer.
package cart

import (
	"github.com/emblashop/embla/internal/domain"
	"github.com/emblashop/embla/internal/pricing"
)

// BrandSelection is the tri-state of a brand's checkbox. Rendering the
// indeterminate state is a UI concern; the engine only reports which of the
// three cases holds.
type BrandSelection string

const (
	BrandSelectionAll  BrandSelection = "all"
	BrandSelectionSome BrandSelection = "some"
	BrandSelectionNone BrandSelection = "none"
)

// PlatformBrandID keys the platform-scope voucher choice.
const PlatformBrandID = ""

// Aggregator maintains the selected-line set over the current cart snapshot.
//
// Invariant: the selected set is always a subset of the current line ids.
// Stale references (a line removed server-side, a voucher whose scope lost
// all selected lines) are self-healed by pruning, never surfaced as errors.
type Aggregator struct {
	lines    []domain.CartLine
	index    map[string]int // line id -> position in lines
	selected map[string]bool

	// Chosen voucher per scope; keyed by brand id, PlatformBrandID for the
	// platform-wide choice.
	chosen map[string]string
}

// NewAggregator builds an aggregator from a cart snapshot, seeding the
// selected set from each line's persisted flag.
func NewAggregator(lines []domain.CartLine) *Aggregator {
	a := &Aggregator{
		selected: make(map[string]bool),
		chosen:   make(map[string]string),
	}
	a.SetLines(lines)
	return a
}

// SetLines replaces the cart snapshot. Selection carries over for surviving
// lines; ids no longer present are pruned and dependent voucher choices
// re-validated.
func (a *Aggregator) SetLines(lines []domain.CartLine) {
	a.lines = lines
	a.index = make(map[string]int, len(lines))
	for i, ln := range lines {
		a.index[ln.ID] = i
		if ln.Selected {
			a.selected[ln.ID] = true
		}
	}

	for id := range a.selected {
		if _, ok := a.index[id]; !ok {
			delete(a.selected, id)
		}
	}

	a.invalidateVouchers()
}

// Lines returns the current cart snapshot with selection flags applied.
func (a *Aggregator) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(a.lines))
	for i, ln := range a.lines {
		ln.Selected = a.selected[ln.ID]
		out[i] = ln
	}
	return out
}

// IsSelected reports whether a line is currently selected.
func (a *Aggregator) IsSelected(lineID string) bool {
	return a.selected[lineID]
}

// SelectedLineIDs returns the ids of selected lines in cart order.
func (a *Aggregator) SelectedLineIDs() []string {
	var ids []string
	for _, ln := range a.lines {
		if a.selected[ln.ID] {
			ids = append(ids, ln.ID)
		}
	}
	return ids
}

// SelectedVariantIDsForBrand returns the variant ids of the brand's selected
// lines, the item set voucher applicability is checked against.
func (a *Aggregator) SelectedVariantIDsForBrand(brandID string) []string {
	var ids []string
	for _, ln := range a.lines {
		if ln.BrandID == brandID && a.selected[ln.ID] {
			ids = append(ids, ln.VariantID)
		}
	}
	return ids
}

// SelectedVariantIDs returns the variant ids of all selected lines.
func (a *Aggregator) SelectedVariantIDs() []string {
	var ids []string
	for _, ln := range a.lines {
		if a.selected[ln.ID] {
			ids = append(ids, ln.VariantID)
		}
	}
	return ids
}

// ToggleLine flips one line's membership in the selected set. Toggling an id
// not present in the cart is a no-op (stale tap after a server-side removal).
func (a *Aggregator) ToggleLine(lineID string) {
	if _, ok := a.index[lineID]; !ok {
		return
	}
	if a.selected[lineID] {
		delete(a.selected, lineID)
	} else {
		a.selected[lineID] = true
	}
	a.invalidateVouchers()
}

// ToggleBrand flips a whole brand: if every line of the brand is selected,
// deselect them all; otherwise select them all.
func (a *Aggregator) ToggleBrand(brandID string) {
	all := true
	found := false
	for _, ln := range a.lines {
		if ln.BrandID != brandID {
			continue
		}
		found = true
		if !a.selected[ln.ID] {
			all = false
		}
	}
	if !found {
		return
	}

	for _, ln := range a.lines {
		if ln.BrandID != brandID {
			continue
		}
		if all {
			delete(a.selected, ln.ID)
		} else {
			a.selected[ln.ID] = true
		}
	}
	a.invalidateVouchers()
}

// BrandSelectionState reports the tri-state of a brand's checkbox: checked
// only when all of the brand's lines are selected.
func (a *Aggregator) BrandSelectionState(brandID string) BrandSelection {
	total, picked := 0, 0
	for _, ln := range a.lines {
		if ln.BrandID != brandID {
			continue
		}
		total++
		if a.selected[ln.ID] {
			picked++
		}
	}
	switch {
	case total == 0 || picked == 0:
		return BrandSelectionNone
	case picked == total:
		return BrandSelectionAll
	default:
		return BrandSelectionSome
	}
}

// BrandIDs returns the distinct brand ids present in the cart, in first-seen
// order.
func (a *Aggregator) BrandIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, ln := range a.lines {
		if !seen[ln.BrandID] {
			seen[ln.BrandID] = true
			ids = append(ids, ln.BrandID)
		}
	}
	return ids
}

// SubtotalForBrand sums post-discount line totals over the brand's selected
// lines, each with its own discount context.
func (a *Aggregator) SubtotalForBrand(brandID string) float64 {
	var sum float64
	for _, ln := range a.lines {
		if ln.BrandID != brandID || !a.selected[ln.ID] {
			continue
		}
		sum += pricing.LineTotal(ln.UnitPrice, ln.Quantity, ln.DiscountValue, ln.DiscountKind)
	}
	return sum
}

// SubtotalPlatform sums the per-brand subtotals over all brands.
func (a *Aggregator) SubtotalPlatform() float64 {
	var sum float64
	for _, brandID := range a.BrandIDs() {
		sum += a.SubtotalForBrand(brandID)
	}
	return sum
}

// ChooseVoucher records the shopper's voucher choice for a scope. Use
// PlatformBrandID for the platform-wide voucher.
func (a *Aggregator) ChooseVoucher(brandID, voucherID string) {
	if voucherID == "" {
		delete(a.chosen, brandID)
		return
	}
	a.chosen[brandID] = voucherID
	a.invalidateVouchers()
}

// ChosenVoucher returns the chosen voucher id for a scope, if any.
func (a *Aggregator) ChosenVoucher(brandID string) (string, bool) {
	id, ok := a.chosen[brandID]
	return id, ok
}

// invalidateVouchers clears voucher choices whose scope has a zero selected
// subtotal: a discount of 0 on an empty selection must not render as applied.
func (a *Aggregator) invalidateVouchers() {
	for brandID := range a.chosen {
		if brandID == PlatformBrandID {
			if a.SubtotalPlatform() == 0 {
				delete(a.chosen, brandID)
			}
			continue
		}
		if a.SubtotalForBrand(brandID) == 0 {
			delete(a.chosen, brandID)
		}
	}
}
