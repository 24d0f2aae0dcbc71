// Package grid implements the workspace cell model: per-screen occupancy
// matrices, vacant region discovery, and the placement searches the loader
// and drop targets run against them.
package grid

import (
	"strings"

	"github.com/xkilldash9x/homegrid/api/schemas"
)

// InvalidCell is returned by the index-based searches when no cell qualifies.
const InvalidCell = -1

// Cell is one grid coordinate.
type Cell struct {
	X int
	Y int
}

// Region is a rectangle of cells anchored at its top-left corner.
type Region struct {
	X     int
	Y     int
	SpanX int
	SpanY int
}

// Occupancy is the boolean cell matrix for a single screen. It is rebuilt
// from the item list before every query rather than patched incrementally.
type Occupancy struct {
	countX int
	countY int
	cells  [][]bool // indexed [x][y]
}

// NewOccupancy returns an empty matrix of the given dimensions.
func NewOccupancy(countX, countY int) *Occupancy {
	if countX <= 0 {
		countX = 1
	}
	if countY <= 0 {
		countY = 1
	}
	cells := make([][]bool, countX)
	for x := range cells {
		cells[x] = make([]bool, countY)
	}
	return &Occupancy{countX: countX, countY: countY, cells: cells}
}

// CountX returns the number of columns.
func (o *Occupancy) CountX() int { return o.countX }

// CountY returns the number of rows.
func (o *Occupancy) CountY() int { return o.countY }

// MaxCount returns the total number of cells.
func (o *Occupancy) MaxCount() int { return o.countX * o.countY }

// Clear resets every cell to vacant.
func (o *Occupancy) Clear() {
	for x := 0; x < o.countX; x++ {
		for y := 0; y < o.countY; y++ {
			o.cells[x][y] = false
		}
	}
}

// Mark claims the given rectangle. Cells falling outside the grid are
// clipped, not rejected; an item hanging off the edge still claims the part
// of it that is on screen.
func (o *Occupancy) Mark(cellX, cellY, spanX, spanY int) {
	for x := cellX; x < cellX+spanX && x < o.countX; x++ {
		if x < 0 {
			continue
		}
		for y := cellY; y < cellY+spanY && y < o.countY; y++ {
			if y < 0 {
				continue
			}
			o.cells[x][y] = true
		}
	}
}

// MarkItems clears the matrix and re-marks it from the item list. Folders
// currently opened as overlays and the ignored item (compared by identity)
// do not claim cells.
func (o *Occupancy) MarkItems(items []schemas.Item, ignore schemas.Item) {
	o.Clear()
	for _, item := range items {
		if item == nil || item == ignore {
			continue
		}
		if opened(item) {
			continue
		}
		info := item.Info()
		o.Mark(info.CellX, info.CellY, info.SpanX, info.SpanY)
	}
}

// opened reports whether the item is a folder currently showing its overlay.
func opened(item schemas.Item) bool {
	switch f := item.(type) {
	case *schemas.UserFolderInfo:
		return f.Opened
	case *schemas.LiveFolderInfo:
		return f.Opened
	default:
		return false
	}
}

// IsOccupied reports whether the cell is claimed. Out-of-range coordinates
// read as occupied so callers never place anything off the grid.
func (o *Occupancy) IsOccupied(x, y int) bool {
	if x < 0 || x >= o.countX || y < 0 || y >= o.countY {
		return true
	}
	return o.cells[x][y]
}

// CanFit reports whether a spanX x spanY block anchored at (x, y) lies fully
// inside the grid with every cell vacant.
func (o *Occupancy) CanFit(x, y, spanX, spanY int) bool {
	if x < 0 || y < 0 || x+spanX > o.countX || y+spanY > o.countY {
		return false
	}
	for i := x; i < x+spanX; i++ {
		for j := y; j < y+spanY; j++ {
			if o.cells[i][j] {
				return false
			}
		}
	}
	return true
}

// CellToIndex converts a coordinate to its row-major index.
func (o *Occupancy) CellToIndex(x, y int) int {
	if x < 0 || x >= o.countX || y < 0 || y >= o.countY {
		return InvalidCell
	}
	return y*o.countX + x
}

// IndexToCell converts a row-major index back to a coordinate.
func (o *Occupancy) IndexToCell(index int) (Cell, bool) {
	if index < 0 || index >= o.MaxCount() {
		return Cell{X: -1, Y: -1}, false
	}
	return Cell{X: index % o.countX, Y: index / o.countX}, true
}

// String renders the matrix one row per line, '#' for occupied and '.' for
// vacant. Used for debug logging of loaded screens.
func (o *Occupancy) String() string {
	var b strings.Builder
	for y := 0; y < o.countY; y++ {
		for x := 0; x < o.countX; x++ {
			if o.cells[x][y] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if y < o.countY-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
