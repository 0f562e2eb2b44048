// Package selection validates the boolean view-selection vector handed
// over by the host integration layer.
package selection

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/drafter/pkg/views"
)

// Vector holds one flag per view kind, index-aligned with views.Kinds.
type Vector []bool

// ArityError reports a selection vector of the wrong length.
type ArityError struct {
	Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("selection: expected %d entries, got %d", views.Count, e.Got)
}

// Validated is a selection vector known to have one entry per view kind.
// The zero value selects nothing.
type Validated struct {
	flags [views.Count]bool
}

// Validate checks the arity of vec. An all-false vector is accepted.
func Validate(vec Vector) (Validated, error) {
	if len(vec) != views.Count {
		return Validated{}, &ArityError{Got: len(vec)}
	}
	var v Validated
	copy(v.flags[:], vec)
	return v, nil
}

// Selected reports whether k is selected.
func (v Validated) Selected(k views.Kind) bool {
	if !k.Valid() {
		return false
	}
	return v.flags[k]
}

// Count returns the number of selected views.
func (v Validated) Count() int {
	return lo.Count(v.flags[:], true)
}

// Kinds returns the selected kinds in enumeration order.
func (v Validated) Kinds() []views.Kind {
	return lo.Filter(views.Kinds[:], func(k views.Kind, _ int) bool {
		return v.flags[k]
	})
}

// Vector returns a copy of the underlying flags.
func (v Validated) Vector() Vector {
	out := make(Vector, views.Count)
	copy(out, v.flags[:])
	return out
}

// FromKinds builds a vector selecting exactly the given kinds.
// Duplicates are harmless.
func FromKinds(kinds ...views.Kind) (Vector, error) {
	vec := make(Vector, views.Count)
	for _, k := range kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("selection: invalid view kind %v", k)
		}
		vec[k] = true
	}
	return vec, nil
}

// Parse builds a vector from view names such as "top" or "front view".
func Parse(names []string) (Vector, error) {
	kinds := make([]views.Kind, 0, len(names))
	for _, n := range names {
		k, err := views.ParseKind(n)
		if err != nil {
			return nil, fmt.Errorf("selection: %w", err)
		}
		kinds = append(kinds, k)
	}
	return FromKinds(kinds...)
}
