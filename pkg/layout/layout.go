// Package layout turns a validated view selection into an ordered list
// of placement instructions.
package layout

import (
	"github.com/samber/lo"

	"github.com/chazu/drafter/pkg/selection"
	"github.com/chazu/drafter/pkg/views"
)

// Entry is one placement instruction: where, how, and at what scale a
// single view is drawn.
type Entry struct {
	views.Placement
	Scale float64
}

// Plan is an ordered list of entries. Entries follow view enumeration
// order and never repeat a kind.
type Plan []Entry

// Kinds returns the view kinds of the plan, in order.
func (p Plan) Kinds() []views.Kind {
	return lo.Map(p, func(e Entry, _ int) views.Kind { return e.Kind })
}

// Planner builds plans with a single shared scale.
type Planner struct {
	scale float64
}

// New returns a planner using scale for every view. A non-positive scale
// falls back to views.DefaultScale.
func New(scale float64) *Planner {
	if scale <= 0 {
		scale = views.DefaultScale
	}
	return &Planner{scale: scale}
}

// Default returns a planner using views.DefaultScale.
func Default() *Planner {
	return New(views.DefaultScale)
}

// Scale returns the shared view scale.
func (p *Planner) Scale() float64 {
	return p.scale
}

// Plan walks the view kinds in enumeration order and emits the catalog
// placement of each selected kind.
func (p *Planner) Plan(sel selection.Validated) Plan {
	plan := make(Plan, 0, sel.Count())
	for _, k := range views.Kinds {
		if !sel.Selected(k) {
			continue
		}
		plan = append(plan, Entry{Placement: views.PlacementFor(k), Scale: p.scale})
	}
	return plan
}
