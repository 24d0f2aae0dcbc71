package loader

import (
	"github.com/xkilldash9x/homegrid/api/schemas"
	"go.uber.org/zap"
)

// resolveApplicationIcon fills the icon fields of an application entry. The
// live icon from the activity source wins; a cached blob from the row is the
// next choice, and the generic fallback covers everything else.
func (c *cycle) resolveApplicationIcon(shortcut *schemas.ShortcutInfo, component schemas.ComponentName, row schemas.FavoriteRow) {
	icons := c.s.providers.Icons

	if blob := icons.IconForComponent(component); len(blob) > 0 {
		shortcut.IconBlob = blob
		shortcut.CustomIcon = false
		shortcut.FallbackIcon = false
		return
	}
	if len(row.Icon) > 0 {
		shortcut.IconBlob = row.Icon
		shortcut.CustomIcon = false
		shortcut.FallbackIcon = false
		return
	}
	shortcut.IconBlob = icons.FallbackIcon()
	shortcut.FallbackIcon = true
}

// resolveShortcutIcon fills the icon fields of a pinned shortcut from its
// recorded provenance. Resource icons re-resolve against the owning package
// so theme changes show up; bitmap icons are the user's own and load from
// the stored blob verbatim.
func (c *cycle) resolveShortcutIcon(shortcut *schemas.ShortcutInfo, row schemas.FavoriteRow) {
	icons := c.s.providers.Icons

	switch shortcut.IconType {
	case schemas.IconFromResource:
		if blob := icons.IconFromResource(row.IconPackage, row.IconResource); len(blob) > 0 {
			shortcut.IconBlob = blob
			return
		}
		c.log.Debug("Shortcut icon resource no longer resolves",
			zap.Int64("id", row.ID),
			zap.String("package", row.IconPackage),
			zap.String("resource", row.IconResource))
	case schemas.IconFromBitmap:
		if len(row.Icon) > 0 {
			shortcut.IconBlob = row.Icon
			shortcut.CustomIcon = true
			return
		}
	}

	shortcut.IconBlob = icons.FallbackIcon()
	shortcut.FallbackIcon = true
}
