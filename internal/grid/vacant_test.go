package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVacantRegionsAt_OccupiedSeed(t *testing.T) {
	o := NewOccupancy(4, 4)
	o.Mark(1, 1, 1, 1)

	set := o.VacantRegionsAt(1, 1)

	assert.False(t, set.Valid)
	assert.Empty(t, set.Regions)
}

func TestVacantRegionsAt_OffGridSeed(t *testing.T) {
	o := NewOccupancy(4, 4)

	assert.False(t, o.VacantRegionsAt(-1, 0).Valid)
	assert.False(t, o.VacantRegionsAt(0, 4).Valid)
}

func TestVacantRegionsAt_SingleFreeCell(t *testing.T) {
	// Occupy everything except (2,2).
	o := NewOccupancy(3, 3)
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			if x == 2 && y == 2 {
				continue
			}
			o.Mark(x, y, 1, 1)
		}
	}

	set := o.VacantRegionsAt(2, 2)

	require.True(t, set.Valid)
	require.Len(t, set.Regions, 1)
	assert.Equal(t, Region{X: 2, Y: 2, SpanX: 1, SpanY: 1}, set.Regions[0])
	assert.Equal(t, 1, set.MaxSpanX)
	assert.Equal(t, 1, set.MaxSpanXSpanY)
	assert.Equal(t, 1, set.MaxSpanY)
	assert.Equal(t, 1, set.MaxSpanYSpanX)
}

func TestVacantRegionsAt_GrowthIsMonotonic(t *testing.T) {
	// Free 2x3 block in the top-left, everything else occupied.
	o := NewOccupancy(4, 4)
	o.Mark(2, 0, 2, 4)
	o.Mark(0, 3, 2, 1)

	set := o.VacantRegionsAt(0, 0)

	require.True(t, set.Valid)
	assert.Equal(t, 2, set.MaxSpanX)
	assert.Equal(t, 3, set.MaxSpanY)

	// Every recorded region must contain the seed and lie inside the free block.
	for _, r := range set.Regions {
		assert.LessOrEqual(t, r.X, 0)
		assert.LessOrEqual(t, r.Y, 0)
		assert.LessOrEqual(t, r.X+r.SpanX, 2)
		assert.LessOrEqual(t, r.Y+r.SpanY, 3)
		assert.GreaterOrEqual(t, r.SpanX, 1)
		assert.GreaterOrEqual(t, r.SpanY, 1)
	}

	// The full 2x3 block itself must be among the regions.
	assert.Contains(t, set.Regions, Region{X: 0, Y: 0, SpanX: 2, SpanY: 3})
}

func TestVacantRegionsAt_MaximaTrackPairedSpans(t *testing.T) {
	// An L of free cells: row 0 fully free, column 0 fully free, on a 3x3
	// grid with the rest occupied. Widest region is 3x1, tallest is 1x3.
	o := NewOccupancy(3, 3)
	o.Mark(1, 1, 2, 2)

	set := o.VacantRegionsAt(0, 0)

	require.True(t, set.Valid)
	assert.Equal(t, 3, set.MaxSpanX)
	assert.Equal(t, 1, set.MaxSpanXSpanY)
	assert.Equal(t, 3, set.MaxSpanY)
	assert.Equal(t, 1, set.MaxSpanYSpanX)
}

func TestAllVacantRegions_EmptyWhenFull(t *testing.T) {
	o := NewOccupancy(2, 2)
	o.Mark(0, 0, 2, 2)

	set := o.AllVacantRegions()

	assert.False(t, set.Valid)
	assert.Empty(t, set.Regions)
}

func TestAllVacantRegions_CoversEveryFreeCell(t *testing.T) {
	o := NewOccupancy(4, 4)
	o.Mark(0, 0, 2, 2)

	set := o.AllVacantRegions()

	require.True(t, set.Valid)

	covered := map[Cell]bool{}
	for _, r := range set.Regions {
		for x := r.X; x < r.X+r.SpanX; x++ {
			for y := r.Y; y < r.Y+r.SpanY; y++ {
				covered[Cell{X: x, Y: y}] = true
			}
		}
	}
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if o.IsOccupied(x, y) {
				continue
			}
			assert.True(t, covered[Cell{X: x, Y: y}], "free cell (%d,%d) not covered", x, y)
		}
	}
}

func TestAllVacantRegions_IsolatedHoles(t *testing.T) {
	// A wall down the middle leaves two isolated single-cell regions.
	o := NewOccupancy(3, 1)
	o.Mark(1, 0, 1, 1)

	set := o.AllVacantRegions()

	require.True(t, set.Valid)
	want := []Region{
		{X: 0, Y: 0, SpanX: 1, SpanY: 1},
		{X: 2, Y: 0, SpanX: 1, SpanY: 1},
	}
	sorted := cmpopts.SortSlices(func(a, b Region) bool {
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	if diff := cmp.Diff(want, set.Regions, sorted); diff != "" {
		t.Errorf("unexpected region set (-want +got):\n%s", diff)
	}
}

func TestAllVacantRegions_DoesNotMutateMatrix(t *testing.T) {
	o := NewOccupancy(4, 4)
	o.Mark(1, 1, 1, 1)

	_ = o.AllVacantRegions()

	assert.True(t, o.IsOccupied(1, 1))
	assert.False(t, o.IsOccupied(0, 0))
	assert.Equal(t, 0, o.FirstVacant())
}

func TestAllVacantRegions_RegionsNeverOverlapOccupied(t *testing.T) {
	o := NewOccupancy(4, 4)
	o.Mark(0, 1, 3, 1)
	o.Mark(2, 3, 1, 1)

	set := o.AllVacantRegions()

	require.True(t, set.Valid)
	for _, r := range set.Regions {
		for x := r.X; x < r.X+r.SpanX; x++ {
			for y := r.Y; y < r.Y+r.SpanY; y++ {
				assert.False(t, o.IsOccupied(x, y), "region %+v covers occupied cell (%d,%d)", r, x, y)
			}
		}
	}
}
