package grid

import "math"

// VacantSet is the result of a vacant region search: every maximal-growth
// rectangle reachable from the seeds, plus running maxima over their spans.
// MaxSpanXSpanY is the height of the widest region found, and MaxSpanYSpanX
// the width of the tallest.
type VacantSet struct {
	Regions []Region

	MaxSpanX      int
	MaxSpanXSpanY int
	MaxSpanY      int
	MaxSpanYSpanX int

	// Valid is true when at least one region was found.
	Valid bool
}

func newVacantSet() *VacantSet {
	return &VacantSet{
		MaxSpanX:      math.MinInt,
		MaxSpanXSpanY: math.MinInt,
		MaxSpanY:      math.MinInt,
		MaxSpanYSpanX: math.MinInt,
	}
}

func (s *VacantSet) add(r Region) {
	if r.SpanX > s.MaxSpanX {
		s.MaxSpanX = r.SpanX
		s.MaxSpanXSpanY = r.SpanY
	}
	if r.SpanY > s.MaxSpanY {
		s.MaxSpanY = r.SpanY
		s.MaxSpanYSpanX = r.SpanX
	}
	s.Regions = append(s.Regions, r)
}

// VacantRegionsAt grows rectangles outward from a single free cell. A seed
// that is occupied or off the grid yields an empty, invalid set.
func (o *Occupancy) VacantRegionsAt(seedX, seedY int) *VacantSet {
	set := newVacantSet()
	if seedX < 0 || seedX >= o.countX || seedY < 0 || seedY >= o.countY {
		return set
	}
	if o.cells[seedX][seedY] {
		return set
	}

	cur := rect{left: seedX, top: seedY, right: seedX, bottom: seedY}
	o.growVacant(&cur, set)
	set.Valid = len(set.Regions) > 0
	return set
}

// AllVacantRegions runs the seed growth from every free cell, column by
// column, consuming each seed after its growth so later seeds do not re-walk
// the same space. The matrix itself is left untouched.
func (o *Occupancy) AllVacantRegions() *VacantSet {
	scratch := o.clone()
	set := newVacantSet()

	for x := 0; x < scratch.countX; x++ {
		for y := 0; y < scratch.countY; y++ {
			if !scratch.cells[x][y] {
				cur := rect{left: x, top: y, right: x, bottom: y}
				scratch.growVacant(&cur, set)
				scratch.cells[x][y] = true
			}
		}
	}

	set.Valid = len(set.Regions) > 0
	return set
}

func (o *Occupancy) clone() *Occupancy {
	c := NewOccupancy(o.countX, o.countY)
	for x := range o.cells {
		copy(c.cells[x], o.cells[x])
	}
	return c
}

// rect is an inclusive cell rectangle used during growth.
type rect struct {
	left, top, right, bottom int
}

func (r rect) region() Region {
	return Region{X: r.left, Y: r.top, SpanX: r.right - r.left + 1, SpanY: r.bottom - r.top + 1}
}

// growVacant records the current rectangle, then tries to widen it by one
// full free edge in each direction, recursing into every extension. The
// rectangle only ever grows, so the recursion terminates at the grid bounds.
func (o *Occupancy) growVacant(cur *rect, set *VacantSet) {
	set.add(cur.region())

	if cur.left > 0 && o.columnEmpty(cur.left-1, cur.top, cur.bottom) {
		cur.left--
		o.growVacant(cur, set)
		cur.left++
	}

	if cur.right < o.countX-1 && o.columnEmpty(cur.right+1, cur.top, cur.bottom) {
		cur.right++
		o.growVacant(cur, set)
		cur.right--
	}

	if cur.top > 0 && o.rowEmpty(cur.top-1, cur.left, cur.right) {
		cur.top--
		o.growVacant(cur, set)
		cur.top++
	}

	if cur.bottom < o.countY-1 && o.rowEmpty(cur.bottom+1, cur.left, cur.right) {
		cur.bottom++
		o.growVacant(cur, set)
		cur.bottom--
	}
}

func (o *Occupancy) columnEmpty(x, top, bottom int) bool {
	for y := top; y <= bottom; y++ {
		if o.cells[x][y] {
			return false
		}
	}
	return true
}

func (o *Occupancy) rowEmpty(y, left, right int) bool {
	for x := left; x <= right; x++ {
		if o.cells[x][y] {
			return false
		}
	}
	return true
}
