// Package catalog maintains the authoritative list of installed launchable
// apps together with the add/remove/modify diff buffers the loader drains
// when it delivers incremental all-apps updates.
package catalog

import (
	"context"
	"sync"

	"github.com/xkilldash9x/homegrid/api/schemas"
	"go.uber.org/zap"
)

// Catalog is the installed-app list. One mutex guards both the list and the
// diff buffers so a package event can never interleave with a load pass.
type Catalog struct {
	mu   sync.Mutex
	data []schemas.AppInfo

	added    []schemas.AppInfo
	removed  []schemas.AppInfo
	modified []schemas.AppInfo

	log *zap.Logger
}

// New returns an empty catalog.
func New(logger *zap.Logger) *Catalog {
	return &Catalog{log: logger.Named("catalog")}
}

// Len returns the number of apps in the list.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear empties the list and all diff buffers.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	c.added = nil
	c.removed = nil
	c.modified = nil
}

// Snapshot returns a point-in-time copy of the list.
func (c *Catalog) Snapshot() []schemas.AppInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]schemas.AppInfo, len(c.data))
	copy(out, c.data)
	return out
}

// Add appends one app, deduplicating by component identity. Duplicates are
// dropped silently; a fresh install lands in the added buffer.
func (c *Catalog) Add(app schemas.AppInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addLocked(app)
}

func (c *Catalog) addLocked(app schemas.AppInfo) {
	for _, existing := range c.data {
		if existing.Component == app.Component {
			return
		}
	}
	c.data = append(c.data, app)
	c.added = append(c.added, app)
}

// AddPackage pulls the package's launchable activities from the source and
// adds each of them.
func (c *Catalog) AddPackage(ctx context.Context, src schemas.ActivitySource, pkg string) error {
	apps, err := src.LaunchableActivities(ctx, pkg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, app := range apps {
		c.addLocked(app)
	}
	c.log.Debug("Package added to catalog", zap.String("package", pkg), zap.Int("activities", len(apps)))
	return nil
}

// RemovePackage drops every entry belonging to the package. Entries removed
// land in the removed buffer; a package with no matches leaves the buffers
// untouched.
func (c *Catalog) RemovePackage(pkg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.data[:0]
	for _, app := range c.data {
		if app.Component.Package == pkg {
			c.removed = append(c.removed, app)
			continue
		}
		kept = append(kept, app)
	}
	c.data = kept
}

// UpdatePackage reconciles the package's entries against its current
// activity list: vanished components are removed, new ones added, and
// survivors refreshed in place and marked modified.
func (c *Catalog) UpdatePackage(ctx context.Context, src schemas.ActivitySource, pkg string) error {
	apps, err := src.LaunchableActivities(ctx, pkg)
	if err != nil {
		return err
	}

	current := make(map[schemas.ComponentName]schemas.AppInfo, len(apps))
	for _, app := range apps {
		current[app.Component] = app
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.data[:0]
	seen := map[schemas.ComponentName]bool{}
	for _, app := range c.data {
		if app.Component.Package != pkg {
			kept = append(kept, app)
			continue
		}
		fresh, stillThere := current[app.Component]
		if !stillThere {
			c.removed = append(c.removed, app)
			continue
		}
		seen[app.Component] = true
		kept = append(kept, fresh)
		c.modified = append(c.modified, fresh)
	}
	c.data = kept

	for _, app := range apps {
		if !seen[app.Component] {
			c.addLocked(app)
		}
	}
	return nil
}

// Diffs is one drained set of catalog changes.
type Diffs struct {
	Added    []schemas.AppInfo
	Removed  []schemas.AppInfo
	Modified []schemas.AppInfo
}

// Empty reports whether nothing changed.
func (d Diffs) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// DrainDiffs returns the accumulated diff buffers and resets them.
func (c *Catalog) DrainDiffs() Diffs {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := Diffs{Added: c.added, Removed: c.removed, Modified: c.modified}
	c.added = nil
	c.removed = nil
	c.modified = nil
	return d
}
