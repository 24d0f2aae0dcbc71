package loader

import (
	"context"
	"strings"

	"github.com/xkilldash9x/homegrid/api/schemas"
	"go.uber.org/zap"
)

// rowVerdict is the per-row outcome of workspace loading.
type rowVerdict int

const (
	rowKeep rowVerdict = iota
	rowSkip
	rowDelete
)

// loadWorkspace reads every favorites row, validates it against the
// providers and the per-screen occupancy, and stashes the surviving items on
// the session. Per-row problems are logged and the scan continues; rows that
// can never load again are queued for deletion and removed in one batch at
// the end.
func (c *cycle) loadWorkspace(ctx context.Context) error {
	s := c.s

	rows, err := s.store.QueryAll(ctx)
	if err != nil {
		return err
	}

	screens := s.cfg.Grid.Screens
	if maxScreen, err := s.store.MaxScreen(ctx); err != nil {
		c.log.Warn("Failed to query max screen, using configured count", zap.Error(err))
	} else if maxScreen+1 > screens {
		screens = maxScreen + 1
		if screens > s.cfg.Grid.MaxScreens {
			screens = s.cfg.Grid.MaxScreens
		}
	}

	countX, countY := s.cfg.Grid.CellsX, s.cfg.Grid.CellsY
	occupied := make([][][]schemas.Item, screens)
	for i := range occupied {
		occupied[i] = make([][]schemas.Item, countX)
		for x := range occupied[i] {
			occupied[i][x] = make([]schemas.Item, countY)
		}
	}

	var items []schemas.Item
	folders := map[int64]schemas.Item{}
	var deletions []int64

	for _, row := range rows {
		if c.isStopped() {
			return nil
		}

		item, verdict := c.itemFromRow(row, folders)
		switch verdict {
		case rowSkip:
			continue
		case rowDelete:
			deletions = append(deletions, row.ID)
			continue
		}

		if !claimCells(occupied, item) {
			info := item.Info()
			c.log.Warn("Evicting item that overlaps an earlier one",
				zap.Int64("id", info.ID),
				zap.Stringer("type", info.ItemType),
				zap.Int("screen", info.Screen),
				zap.Int("cell_x", info.CellX),
				zap.Int("cell_y", info.CellY))
			deletions = append(deletions, row.ID)
			continue
		}

		info := item.Info()
		switch info.Container {
		case schemas.ContainerDesktop, schemas.ContainerDock:
			items = append(items, item)
		default:
			// The row lives inside a folder. Only shortcuts can.
			shortcut, ok := item.(*schemas.ShortcutInfo)
			if !ok {
				c.log.Warn("Non-shortcut row inside a folder, skipping",
					zap.Int64("id", info.ID), zap.Int64("container", info.Container))
				continue
			}
			findOrMakeUserFolder(folders, info.Container).Add(shortcut)
		}
	}

	if len(deletions) > 0 {
		c.log.Info("Removing unloadable rows", zap.Int("count", len(deletions)))
		if err := s.store.DeleteItems(ctx, deletions); err != nil {
			c.log.Warn("Failed to delete unloadable rows", zap.Error(err))
		}
	}

	if ce := c.log.Check(zap.DebugLevel, "Workspace loaded"); ce != nil {
		ce.Write(zap.Int("items", len(items)),
			zap.Int("folders", len(folders)),
			zap.String("occupancy", renderOccupancy(occupied)))
	}

	s.setWorkspaceState(items, folders)
	return nil
}

// itemFromRow builds a workspace item from its row, validating it against
// the providers. Folders are interned in the folders map by id so content
// rows and the folder row itself share one instance.
func (c *cycle) itemFromRow(row schemas.FavoriteRow, folders map[int64]schemas.Item) (schemas.Item, rowVerdict) {
	switch schemas.ItemType(row.ItemType) {
	case schemas.ItemTypeApplication, schemas.ItemTypeShortcut:
		return c.shortcutFromRow(row)
	case schemas.ItemTypeUserFolder:
		return c.userFolderFromRow(row, folders), rowKeep
	case schemas.ItemTypeLiveFolder:
		return c.liveFolderFromRow(row, folders)
	case schemas.ItemTypeWidget:
		return c.widgetFromRow(row)
	case schemas.ItemTypeCustomWidget:
		info := schemas.NewItemInfo(schemas.ItemTypeCustomWidget)
		applyRowPlacement(&info, row)
		return &schemas.CustomWidgetInfo{ItemInfo: info, WidgetType: schemas.CustomWidgetType(row.WidgetID)}, rowKeep
	default:
		c.log.Warn("Unknown item type in store, skipping", zap.Int64("id", row.ID), zap.Int("item_type", row.ItemType))
		return nil, rowSkip
	}
}

func (c *cycle) shortcutFromRow(row schemas.FavoriteRow) (schemas.Item, rowVerdict) {
	intent, err := schemas.DecodeLaunchIntent(row.Intent)
	if err != nil {
		c.log.Warn("Shortcut row with malformed intent, skipping", zap.Int64("id", row.ID), zap.Error(err))
		return nil, rowSkip
	}

	info := schemas.NewItemInfo(schemas.ItemType(row.ItemType))
	applyRowPlacement(&info, row)
	shortcut := &schemas.ShortcutInfo{
		ItemInfo:     info,
		Title:        row.Title,
		Intent:       intent,
		IconType:     schemas.IconProvenance(row.IconType),
		IconPackage:  row.IconPackage,
		IconResource: row.IconResource,
	}

	if info.ItemType == schemas.ItemTypeApplication {
		if intent == nil {
			c.log.Warn("Application row without an intent, skipping", zap.Int64("id", row.ID))
			return nil, rowSkip
		}
		component, ok := c.s.providers.Activities.ResolveIntent(intent)
		if !ok {
			c.log.Info("Application no longer resolves, deleting row",
				zap.Int64("id", row.ID), zap.String("title", row.Title))
			return nil, rowDelete
		}
		c.resolveApplicationIcon(shortcut, component, row)
		return shortcut, rowKeep
	}

	c.resolveShortcutIcon(shortcut, row)
	return shortcut, rowKeep
}

func (c *cycle) userFolderFromRow(row schemas.FavoriteRow, folders map[int64]schemas.Item) schemas.Item {
	folder := findOrMakeUserFolder(folders, row.ID)
	applyRowPlacement(&folder.ItemInfo, row)
	folder.ID = row.ID
	folder.ItemType = schemas.ItemTypeUserFolder
	folder.Title = row.Title
	return folder
}

func (c *cycle) liveFolderFromRow(row schemas.FavoriteRow, folders map[int64]schemas.Item) (schemas.Item, rowVerdict) {
	if !c.s.providers.LiveFolders.AuthorityInstalled(row.URI) {
		if c.s.providers.Activities.SafeMode() {
			c.log.Info("Live folder provider missing in safe mode, keeping row",
				zap.Int64("id", row.ID), zap.String("uri", row.URI))
		} else {
			c.log.Info("Live folder provider gone, deleting row",
				zap.Int64("id", row.ID), zap.String("uri", row.URI))
			return nil, rowDelete
		}
	}

	baseIntent, err := schemas.DecodeLaunchIntent(row.Intent)
	if err != nil {
		c.log.Warn("Live folder row with malformed base intent, skipping", zap.Int64("id", row.ID), zap.Error(err))
		return nil, rowSkip
	}

	folder := findOrMakeLiveFolder(folders, row.ID)
	applyRowPlacement(&folder.ItemInfo, row)
	folder.ID = row.ID
	folder.ItemType = schemas.ItemTypeLiveFolder
	folder.Title = row.Title
	folder.URI = row.URI
	folder.BaseIntent = baseIntent
	folder.DisplayMode = row.DisplayMode
	folder.IconType = schemas.IconProvenance(row.IconType)
	folder.IconPackage = row.IconPackage
	folder.IconResource = row.IconResource
	return folder, rowKeep
}

func (c *cycle) widgetFromRow(row schemas.FavoriteRow) (schemas.Item, rowVerdict) {
	if row.Container != schemas.ContainerDesktop {
		c.log.Warn("Widget outside the desktop container, skipping",
			zap.Int64("id", row.ID), zap.Int64("container", row.Container))
		return nil, rowSkip
	}

	if _, ok := c.s.providers.Widgets.ProviderFor(row.WidgetID); !ok {
		if c.s.providers.Activities.SafeMode() {
			c.log.Info("Widget provider missing in safe mode, keeping row",
				zap.Int64("id", row.ID), zap.Int("widget_id", row.WidgetID))
		} else {
			c.log.Info("Widget provider gone, deleting row",
				zap.Int64("id", row.ID), zap.Int("widget_id", row.WidgetID))
			return nil, rowDelete
		}
	}

	info := schemas.NewItemInfo(schemas.ItemTypeWidget)
	applyRowPlacement(&info, row)
	return &schemas.WidgetInfo{ItemInfo: info, WidgetID: row.WidgetID}, rowKeep
}

func applyRowPlacement(info *schemas.ItemInfo, row schemas.FavoriteRow) {
	info.ID = row.ID
	info.Container = row.Container
	info.Screen = row.Screen
	info.CellX = row.CellX
	info.CellY = row.CellY
	info.SpanX = row.SpanX
	info.SpanY = row.SpanY
	info.OrderID = row.OrderID
}

func findOrMakeUserFolder(folders map[int64]schemas.Item, id int64) *schemas.UserFolderInfo {
	if f, ok := folders[id].(*schemas.UserFolderInfo); ok {
		return f
	}
	f := &schemas.UserFolderInfo{FolderInfo: schemas.FolderInfo{ItemInfo: schemas.NewItemInfo(schemas.ItemTypeUserFolder)}}
	f.ID = id
	folders[id] = f
	return f
}

func findOrMakeLiveFolder(folders map[int64]schemas.Item, id int64) *schemas.LiveFolderInfo {
	if f, ok := folders[id].(*schemas.LiveFolderInfo); ok {
		return f
	}
	f := &schemas.LiveFolderInfo{FolderInfo: schemas.FolderInfo{ItemInfo: schemas.NewItemInfo(schemas.ItemTypeLiveFolder)}}
	f.ID = id
	folders[id] = f
	return f
}

// claimCells enforces the no-overlap invariant for desktop items. The first
// claimant of a cell wins; a later item touching a claimed cell is rejected.
// Cells hanging off the grid are clipped rather than rejected. Items in the
// dock or inside folders do not claim workspace cells.
func claimCells(occupied [][][]schemas.Item, item schemas.Item) bool {
	info := item.Info()
	if info.Container != schemas.ContainerDesktop {
		return true
	}
	if info.Screen < 0 || info.Screen >= len(occupied) {
		return false
	}

	screen := occupied[info.Screen]
	countX := len(screen)
	countY := 0
	if countX > 0 {
		countY = len(screen[0])
	}

	for x := info.CellX; x < info.CellX+info.SpanX && x < countX; x++ {
		if x < 0 {
			continue
		}
		for y := info.CellY; y < info.CellY+info.SpanY && y < countY; y++ {
			if y < 0 {
				continue
			}
			if screen[x][y] != nil {
				return false
			}
		}
	}

	for x := info.CellX; x < info.CellX+info.SpanX && x < countX; x++ {
		if x < 0 {
			continue
		}
		for y := info.CellY; y < info.CellY+info.SpanY && y < countY; y++ {
			if y < 0 {
				continue
			}
			screen[x][y] = item
		}
	}
	return true
}

func renderOccupancy(occupied [][][]schemas.Item) string {
	var b strings.Builder
	for screen, cells := range occupied {
		if screen > 0 {
			b.WriteByte('\n')
		}
		countX := len(cells)
		if countX == 0 {
			continue
		}
		for y := 0; y < len(cells[0]); y++ {
			for x := 0; x < countX; x++ {
				if cells[x][y] != nil {
					b.WriteByte('#')
				} else {
					b.WriteByte('.')
				}
			}
			b.WriteByte('|')
		}
	}
	return b.String()
}

// bindWorkspace posts the bind sequence: startBinding, the desktop items in
// chunks, the dock, the folder map, widgets with the visible screen's first,
// then finishBindingItems.
func (c *cycle) bindWorkspace() {
	items, folders := c.s.workspaceState()

	var desktop []schemas.Item
	var dock []schemas.Item
	var widgets []*schemas.WidgetInfo
	var custom []*schemas.CustomWidgetInfo
	for _, item := range items {
		switch v := item.(type) {
		case *schemas.WidgetInfo:
			widgets = append(widgets, v)
		case *schemas.CustomWidgetInfo:
			custom = append(custom, v)
		default:
			if item.Info().Container == schemas.ContainerDock {
				dock = append(dock, item)
			} else {
				desktop = append(desktop, item)
			}
		}
	}

	cb := c.s.attachedCallbacks()
	if cb == nil {
		return
	}
	currentScreen := cb.GetCurrentScreen()

	c.post(func(cb schemas.Callbacks) { cb.StartBinding() })

	chunk := c.s.cfg.Loader.ItemsChunk
	for i := 0; i < len(desktop); i += chunk {
		start, end := i, i+chunk
		if end > len(desktop) {
			end = len(desktop)
		}
		c.post(func(cb schemas.Callbacks) { cb.BindItems(desktop, start, end) })
	}

	c.post(func(cb schemas.Callbacks) { cb.BindDockItems(dock) })

	folderCopy := make(map[int64]schemas.Item, len(folders))
	for id, f := range folders {
		folderCopy[id] = f
	}
	c.post(func(cb schemas.Callbacks) { cb.BindFolders(folderCopy) })

	// The visible screen's widgets bind before everyone else's.
	for pass := 0; pass < 2; pass++ {
		onCurrent := pass == 0
		for _, w := range widgets {
			if (w.Screen == currentScreen) != onCurrent {
				continue
			}
			w := w
			c.post(func(cb schemas.Callbacks) { cb.BindWidget(w) })
		}
		for _, w := range custom {
			if (w.Screen == currentScreen) != onCurrent {
				continue
			}
			w := w
			c.post(func(cb schemas.Callbacks) { cb.BindCustomWidget(w) })
		}
	}

	c.post(func(cb schemas.Callbacks) { cb.FinishBindingItems() })
}
