package grid

import (
	"math"

	"github.com/xkilldash9x/homegrid/internal/config"
)

// Metrics holds the pixel geometry of a screen's cell grid.
type Metrics struct {
	CountX     int
	CountY     int
	CellWidth  int
	CellHeight int
	WidthGap   int
	HeightGap  int

	LeftPadding   int
	TopPadding    int
	RightPadding  int
	BottomPadding int
}

// MetricsFromConfig builds Metrics from the configured grid geometry.
func MetricsFromConfig(cfg config.GridConfig) Metrics {
	return Metrics{
		CountX:        cfg.CellsX,
		CountY:        cfg.CellsY,
		CellWidth:     cfg.CellWidth,
		CellHeight:    cfg.CellHeight,
		WidthGap:      cfg.WidthGap,
		HeightGap:     cfg.HeightGap,
		LeftPadding:   cfg.LeftPadding,
		TopPadding:    cfg.TopPadding,
		RightPadding:  cfg.RightPadding,
		BottomPadding: cfg.BottomPadding,
	}
}

// CellToPoint returns the pixel coordinate of the cell's upper left corner.
func (m Metrics) CellToPoint(cellX, cellY int) (int, int) {
	x := m.LeftPadding + cellX*(m.CellWidth+m.WidthGap)
	y := m.TopPadding + cellY*(m.CellHeight+m.HeightGap)
	return x, y
}

// PointToCellExact returns the cell strictly enclosing the pixel point,
// clamped to the grid bounds.
func (m Metrics) PointToCellExact(x, y int) Cell {
	cx := (x - m.LeftPadding) / (m.CellWidth + m.WidthGap)
	cy := (y - m.TopPadding) / (m.CellHeight + m.HeightGap)

	if cx < 0 {
		cx = 0
	}
	if cx >= m.CountX {
		cx = m.CountX - 1
	}
	if cy < 0 {
		cy = 0
	}
	if cy >= m.CountY {
		cy = m.CountY - 1
	}
	return Cell{X: cx, Y: cy}
}

// PointToCellRounded returns the cell most closely enclosing the pixel point.
func (m Metrics) PointToCellRounded(x, y int) Cell {
	return m.PointToCellExact(x+m.CellWidth/2, y+m.CellHeight/2)
}

// Rect is a pixel rectangle.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// CellRect computes the pixel bounding box for a range of cells.
func (m Metrics) CellRect(cellX, cellY, spanX, spanY int) Rect {
	width := spanX*m.CellWidth + (spanX-1)*m.WidthGap
	height := spanY*m.CellHeight + (spanY-1)*m.HeightGap
	x, y := m.CellToPoint(cellX, cellY)
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// SpanForSize computes the cell spans needed to fit a pixel rectangle,
// rounding up against the smaller cell dimension so the reservation holds
// in both orientations. Spans are capped at 4.
func (m Metrics) SpanForSize(width, height int) (int, int) {
	smaller := m.CellWidth
	if m.CellHeight < smaller {
		smaller = m.CellHeight
	}

	spanX := int(math.Ceil(float64(width) / float64(smaller)))
	spanY := int(math.Ceil(float64(height) / float64(smaller)))

	if spanX > 4 {
		spanX = 4
	}
	if spanY > 4 {
		spanY = 4
	}
	if spanX < 1 {
		spanX = 1
	}
	if spanY < 1 {
		spanY = 1
	}
	return spanX, spanY
}
