package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/drafter/pkg/selection"
	"github.com/chazu/drafter/pkg/views"
)

func mustValidate(t *testing.T, vec selection.Vector) selection.Validated {
	t.Helper()
	v, err := selection.Validate(vec)
	require.NoError(t, err)
	return v
}

func TestPlanTopAndFront(t *testing.T) {
	plan := Default().Plan(mustValidate(t, selection.Vector{true, false, true, false, false, false}))

	require.Len(t, plan, 2)
	assert.Equal(t, views.Top, plan[0].Kind)
	assert.Equal(t, views.Point{X: 5.0, Y: 4.0}, plan[0].Position)
	assert.Equal(t, 0.5, plan[0].Scale)
	assert.Equal(t, views.Front, plan[1].Kind)
	assert.Equal(t, views.Point{X: 25.0, Y: 4.0}, plan[1].Position)
	assert.Equal(t, 0.5, plan[1].Scale)
}

func TestPlanEmptySelection(t *testing.T) {
	plan := Default().Plan(mustValidate(t, make(selection.Vector, views.Count)))
	assert.Empty(t, plan)
}

// Every subset of the six views yields kinds in enumeration order,
// one entry per selected flag, without duplicates.
func TestPlanOrderForAllSubsets(t *testing.T) {
	p := Default()
	for mask := 0; mask < 1<<views.Count; mask++ {
		vec := make(selection.Vector, views.Count)
		var want []views.Kind
		for i, k := range views.Kinds {
			if mask&(1<<i) != 0 {
				vec[i] = true
				want = append(want, k)
			}
		}

		plan := p.Plan(mustValidate(t, vec))
		require.Len(t, plan, len(want), "mask %06b", mask)
		if len(want) == 0 {
			continue
		}
		assert.Equal(t, want, plan.Kinds(), "mask %06b", mask)

		seen := map[views.Kind]bool{}
		for _, e := range plan {
			assert.False(t, seen[e.Kind], "duplicate %v", e.Kind)
			seen[e.Kind] = true
			assert.Equal(t, views.PlacementFor(e.Kind), e.Placement)
		}
	}
}

func TestNewScaleFallback(t *testing.T) {
	assert.Equal(t, views.DefaultScale, New(0).Scale())
	assert.Equal(t, views.DefaultScale, New(-2).Scale())
	assert.Equal(t, 1.0, New(1).Scale())

	plan := New(0.25).Plan(mustValidate(t, selection.Vector{false, false, false, false, false, true}))
	require.Len(t, plan, 1)
	assert.Equal(t, 0.25, plan[0].Scale)
}
