package grid

import "math"

// FirstVacant returns the lowest row-major index whose cell is unclaimed,
// or InvalidCell when the screen is full.
func (o *Occupancy) FirstVacant() int {
	for i := 0; i < o.MaxCount(); i++ {
		cell, _ := o.IndexToCell(i)
		if !o.cells[cell.X][cell.Y] {
			return i
		}
	}
	return InvalidCell
}

// LastVacant returns the highest row-major index whose cell is unclaimed,
// or InvalidCell when the screen is full.
func (o *Occupancy) LastVacant() int {
	for i := o.MaxCount() - 1; i >= 0; i-- {
		cell, _ := o.IndexToCell(i)
		if !o.cells[cell.X][cell.Y] {
			return i
		}
	}
	return InvalidCell
}

// NearestVacantBetween walks from newIndex toward oldIndex and returns the
// first vacant index strictly between them, nearest to newIndex. Equal
// indices short-circuit to newIndex; a fully occupied span falls back to
// oldIndex.
func (o *Occupancy) NearestVacantBetween(oldIndex, newIndex int) int {
	if oldIndex == newIndex {
		return newIndex
	}

	number := oldIndex
	cell, ok := o.IndexToCell(newIndex)
	if !ok {
		return number
	}
	col, row := cell.X, cell.Y

	if newIndex < oldIndex {
		for i := newIndex + 1; i < oldIndex; i++ {
			col++
			if col >= o.countX {
				row++
				col = 0
			}
			if !o.IsOccupied(col, row) {
				number = o.CellToIndex(col, row)
				break
			}
		}
	} else {
		for i := newIndex - 1; i > oldIndex; i-- {
			col--
			if col < 0 {
				row--
				col = o.countX - 1
			}
			if !o.IsOccupied(col, row) {
				number = o.CellToIndex(col, row)
				break
			}
		}
	}

	return number
}

// NearestVacant searches outward from the current index in both directions
// and returns the closer vacant index. When both directions find one at the
// same distance, the candidate toward index zero wins.
func (o *Occupancy) NearestVacant(currentIndex int) int {
	up := o.nearestVacantToward(currentIndex, o.MaxCount()-1)
	down := o.nearestVacantToward(currentIndex, 0)

	switch {
	case up >= 0 && down >= 0:
		if abs(up-currentIndex) < abs(down-currentIndex) {
			return up
		}
		return down
	case up < 0:
		return down
	default:
		return up
	}
}

// nearestVacantToward scans from currentIndex toward limit, exclusive of
// currentIndex, and returns the first vacant index found.
func (o *Occupancy) nearestVacantToward(currentIndex, limit int) int {
	if currentIndex == limit {
		return InvalidCell
	}

	if currentIndex < limit {
		for i := currentIndex + 1; i <= limit; i++ {
			if o.indexVacant(i) {
				return i
			}
		}
	} else {
		for i := currentIndex - 1; i >= limit; i-- {
			if o.indexVacant(i) {
				return i
			}
		}
	}

	return InvalidCell
}

func (o *Occupancy) indexVacant(index int) bool {
	cell, ok := o.IndexToCell(index)
	if !ok {
		return false
	}
	return !o.cells[cell.X][cell.Y]
}

// FindCellForSpan scans row-major for the first top-left cell where a
// spanX x spanY block fits entirely on vacant cells.
func (o *Occupancy) FindCellForSpan(spanX, spanY int) (Cell, bool) {
	if spanX <= 0 || spanY <= 0 {
		return Cell{X: -1, Y: -1}, false
	}
	for y := 0; y < o.countY; y++ {
		for x := 0; x < o.countX; x++ {
			if o.CanFit(x, y, spanX, spanY) {
				return Cell{X: x, Y: y}, true
			}
		}
	}
	return Cell{X: -1, Y: -1}, false
}

// BestFitRegion picks, among the vacant regions whose span matches exactly,
// the one whose top-left pixel corner is closest to the requested point.
// Later regions win distance ties.
func BestFitRegion(pixelX, pixelY, spanX, spanY int, set *VacantSet, m Metrics) (Cell, bool) {
	if set == nil || !set.Valid {
		return Cell{X: -1, Y: -1}, false
	}

	best := Cell{X: -1, Y: -1}
	bestDistance := math.MaxFloat64
	found := false

	for _, r := range set.Regions {
		if r.SpanX != spanX || r.SpanY != spanY {
			continue
		}

		px, py := m.CellToPoint(r.X, r.Y)
		distance := math.Hypot(float64(px-pixelX), float64(py-pixelY))
		if distance <= bestDistance {
			bestDistance = distance
			best = Cell{X: r.X, Y: r.Y}
			found = true
		}
	}

	return best, found
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
