package loader

import (
	"github.com/xkilldash9x/homegrid/api/schemas"
	"github.com/xkilldash9x/homegrid/internal/grid"
)

// OccupancyForScreen recomputes the occupancy of one workspace screen from
// the loaded items. It is rebuilt on every call rather than patched, so the
// result always reflects the items as stored.
func (s *Session) OccupancyForScreen(screen int, ignoring schemas.Item) *grid.Occupancy {
	items, _ := s.workspaceState()

	occ := grid.NewOccupancy(s.cfg.Grid.CellsX, s.cfg.Grid.CellsY)
	var onScreen []schemas.Item
	for _, item := range items {
		info := item.Info()
		if info.Container == schemas.ContainerDesktop && info.Screen == screen {
			onScreen = append(onScreen, item)
		}
	}
	occ.MarkItems(onScreen, ignoring)
	return occ
}

// FirstVacantCell returns the row-major first free cell on screen, or false
// when the screen is full.
func (s *Session) FirstVacantCell(screen int) (grid.Cell, bool) {
	occ := s.OccupancyForScreen(screen, nil)
	index := occ.FirstVacant()
	if index == grid.InvalidCell {
		return grid.Cell{}, false
	}
	return occ.IndexToCell(index)
}

// NearestVacantCell returns the free cell nearest to index on screen,
// preferring the lower index on a tie, or false when the screen is full.
func (s *Session) NearestVacantCell(screen, index int) (grid.Cell, bool) {
	occ := s.OccupancyForScreen(screen, nil)
	found := occ.NearestVacant(index)
	if found == grid.InvalidCell {
		return grid.Cell{}, false
	}
	return occ.IndexToCell(found)
}

// CellForSpan returns the origin of the first free spanX by spanY block on
// screen, ignoring the given item's own footprint so an item can be asked
// where it itself fits.
func (s *Session) CellForSpan(screen, spanX, spanY int, ignoring schemas.Item) (grid.Cell, bool) {
	occ := s.OccupancyForScreen(screen, ignoring)
	return occ.FindCellForSpan(spanX, spanY)
}

// BestFitCell returns the free spanX by spanY region on screen whose origin
// is nearest the given pixel position.
func (s *Session) BestFitCell(screen, pixelX, pixelY, spanX, spanY int, ignoring schemas.Item) (grid.Cell, bool) {
	occ := s.OccupancyForScreen(screen, ignoring)
	set := occ.AllVacantRegions()
	return grid.BestFitRegion(pixelX, pixelY, spanX, spanY, set, s.metrics)
}

// VacantRegionsAt returns every maximal free region reachable from the cell
// under the given pixel position, with the running span maxima filled in.
func (s *Session) VacantRegionsAt(screen, pixelX, pixelY int, ignoring schemas.Item) *grid.VacantSet {
	occ := s.OccupancyForScreen(screen, ignoring)
	seed := s.metrics.PointToCellExact(pixelX, pixelY)
	return occ.VacantRegionsAt(seed.X, seed.Y)
}
