// Package classification resolves which concrete variant of a product is
// selected from its attribute matrix, accounting for stock and lifecycle
// status. It is a pure computation layer: no I/O, no hidden clocks.
package classification

import (
	"github.com/emblashop/embla/internal/domain"
)

// Index is a lookup structure over a product's variant set: the distinct
// values per attribute axis in first-seen order, and matching from a full or
// partial attribute assignment to the variants it covers.
//
// The index is a filter, not a join. It is re-derivable from the variant list
// at any time and cheap to rebuild at catalog sizes (a few hundred variants
// per product), so callers rebuild rather than cache.
type Index struct {
	variants []domain.Variant
	options  map[domain.AttributeKey][]string
}

// NewIndex builds an index from a flat list of variant records.
func NewIndex(variants []domain.Variant) *Index {
	idx := &Index{
		variants: variants,
		options:  make(map[domain.AttributeKey][]string, len(domain.AttributeKeys)),
	}

	for _, key := range domain.AttributeKeys {
		seen := make(map[string]bool)
		var values []string
		for _, v := range variants {
			val := v.Attributes.Get(key)
			if val == "" || seen[val] {
				continue
			}
			seen[val] = true
			values = append(values, val)
		}
		if len(values) > 0 {
			idx.options[key] = values
		}
	}

	return idx
}

// Variants returns the underlying variant set.
func (x *Index) Variants() []domain.Variant {
	return x.variants
}

// Options returns the distinct values for an attribute axis in first-seen
// order, or nil when no variant carries a value on that axis.
func (x *Index) Options(key domain.AttributeKey) []string {
	return x.options[key]
}

// ConstrainedKeys returns the attribute axes that at least one variant
// constrains, in canonical order. A full selection must set all of them.
func (x *Index) ConstrainedKeys() []domain.AttributeKey {
	var keys []domain.AttributeKey
	for _, key := range domain.AttributeKeys {
		if len(x.options[key]) > 0 {
			keys = append(keys, key)
		}
	}
	return keys
}

// AvailableOptions returns the subset of Options(key) for which at least one
// variant matches every *other* already-fixed attribute in the selection.
// Unset axes impose no constraint.
func (x *Index) AvailableOptions(key domain.AttributeKey, selection domain.Attributes) []string {
	// Drop the queried axis from the constraint set so a value already
	// selected there does not filter out its siblings.
	constraint := selection.With(key, "")

	var values []string
	for _, value := range x.options[key] {
		candidate := constraint.With(key, value)
		if len(x.Match(candidate)) > 0 {
			values = append(values, value)
		}
	}
	return values
}

// Match returns the variants consistent with a full or partial assignment:
// every set axis of the selection must equal the variant's value.
func (x *Index) Match(selection domain.Attributes) []domain.Variant {
	var matched []domain.Variant
	for _, v := range x.variants {
		if matches(v, selection) {
			matched = append(matched, v)
		}
	}
	return matched
}

func matches(v domain.Variant, selection domain.Attributes) bool {
	for _, key := range domain.AttributeKeys {
		want := selection.Get(key)
		if want != "" && v.Attributes.Get(key) != want {
			return false
		}
	}
	return true
}
