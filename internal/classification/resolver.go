package classification

import (
	"time"

	"github.com/emblashop/embla/internal/domain"
)

// State is the resolver's selection state. After every transition the state
// is exactly one of these three values, never undefined.
type State string

const (
	// StateIncomplete: at least one constrained attribute axis is unset.
	StateIncomplete State = "incomplete"

	// StateUnmatched: all constrained axes are set but no single variant
	// matches exactly. Zero matches and ambiguous (multi-variant) matches
	// both land here; either signals upstream catalog inconsistency and
	// blocks commit. Never auto-corrected.
	StateUnmatched State = "complete_unmatched"

	// StateMatched: exactly one variant matches the full assignment.
	StateMatched State = "complete_matched"
)

// Resolver is a stateful combinatorial selector over one product's variant
// matrix. It lives inside a single screen's view-model: single-threaded,
// mutated one discrete tap at a time, no locking required.
type Resolver struct {
	product domain.Product
	index   *Index

	selection domain.Attributes

	// Last committed assignment, restored on Cancel.
	committed   domain.Attributes
	committedID string

	state   State
	matched domain.Variant
}

// NewResolver creates a resolver seeded from the currently committed variant,
// or with an empty selection when none is committed yet.
func NewResolver(product domain.Product, index *Index, committed *domain.Variant) *Resolver {
	r := &Resolver{
		product: product,
		index:   index,
	}
	if committed != nil {
		r.selection = committed.Attributes
		r.committed = committed.Attributes
		r.committedID = committed.ID
	}
	r.resolve()
	return r
}

// Index exposes the resolver's underlying index.
func (r *Resolver) Index() *Index {
	return r.index
}

// Selection returns the pending attribute assignment.
func (r *Resolver) Selection() domain.Attributes {
	return r.selection
}

// State returns the current selection state.
func (r *Resolver) State() State {
	return r.state
}

// Matched returns the resolved variant when the state is StateMatched.
func (r *Resolver) Matched() (domain.Variant, bool) {
	if r.state != StateMatched {
		return domain.Variant{}, false
	}
	return r.matched, true
}

// Select applies one tap on an attribute value. Selecting the value already
// held on that axis clears it; selecting a different value overwrites that
// axis only. The state is re-resolved after every transition, so N sequential
// calls equal applying the transition function N times in order.
func (r *Resolver) Select(key domain.AttributeKey, value string) State {
	if r.selection.Get(key) == value {
		r.selection = r.selection.With(key, "")
	} else {
		r.selection = r.selection.With(key, value)
	}
	r.resolve()
	return r.state
}

// resolve recomputes state and matched variant from the current selection.
func (r *Resolver) resolve() {
	for _, key := range r.index.ConstrainedKeys() {
		if r.selection.Get(key) == "" {
			r.state = StateIncomplete
			r.matched = domain.Variant{}
			return
		}
	}

	candidates := r.index.Match(r.selection)
	if len(candidates) != 1 {
		r.state = StateUnmatched
		r.matched = domain.Variant{}
		return
	}

	r.state = StateMatched
	r.matched = candidates[0]
}

// IsSelectable is the purchasability predicate for one variant: active
// status, positive stock at the relevant hierarchy level (event-scoped stock
// while a discount or pre-order event runs), and the product-level gate.
// It is independent of whether the variant is currently selected: a
// selected-but-inactive combination still renders, disabled, so the user can
// change away from it.
func (r *Resolver) IsSelectable(v domain.Variant, now time.Time) bool {
	if !r.product.Purchasable() {
		return false
	}
	if v.Status != domain.VariantStatusActive {
		return false
	}
	return v.EffectiveStock(now) > 0
}

// ValueSelectable reports whether tapping value on key could still lead to a
// purchasable variant: at least one variant consistent with the other fixed
// axes plus this value passes IsSelectable.
func (r *Resolver) ValueSelectable(key domain.AttributeKey, value string, now time.Time) bool {
	constraint := r.selection.With(key, value)
	for _, v := range r.index.Match(constraint) {
		if r.IsSelectable(v, now) {
			return true
		}
	}
	return false
}

// Commit finalizes the pending selection. It is a no-op unless the state is
// StateMatched and the resolved variant differs by id from the previously
// committed one, in which case it returns the variant-change event for the
// cart layer, carrying the old id the caller needs for rollback.
func (r *Resolver) Commit(quantity int) (domain.VariantChangedEvent, bool) {
	matched, ok := r.Matched()
	if !ok || matched.ID == r.committedID {
		return domain.VariantChangedEvent{}, false
	}

	ev := domain.VariantChangedEvent{
		OldVariantID: r.committedID,
		NewVariantID: matched.ID,
		Quantity:     quantity,
	}

	r.committed = r.selection
	r.committedID = matched.ID
	return ev, true
}

// Cancel discards the pending selection and restores the last committed
// attribute assignment.
func (r *Resolver) Cancel() {
	r.selection = r.committed
	r.resolve()
}
