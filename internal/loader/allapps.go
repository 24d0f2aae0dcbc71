package loader

import (
	"context"
	"sort"

	"github.com/xkilldash9x/homegrid/api/schemas"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"
)

// loadAllAppsByBatch rebuilds the catalog from the activity source and
// delivers it in title order. The first batch arrives through BindAllApps so
// the view replaces its contents; later batches append through
// BindAppsAdded. A batch size of zero means everything in one shot.
func (c *cycle) loadAllAppsByBatch(ctx context.Context) error {
	s := c.s

	apps, err := s.providers.Activities.LaunchableActivities(ctx, "")
	if err != nil {
		return err
	}

	s.catalog.Clear()
	for _, app := range apps {
		s.catalog.Add(app)
	}
	// A fresh scan is the new baseline, not a diff against the old one.
	s.catalog.DrainDiffs()

	snapshot := sortAppsByTitle(s.catalog.Snapshot())
	c.log.Info("App catalog loaded", zap.Int("count", len(snapshot)))

	batchSize := s.cfg.Loader.BatchSize
	if batchSize <= 0 {
		batchSize = len(snapshot)
	}

	var limiter *rate.Limiter
	if s.cfg.Loader.BatchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.cfg.Loader.BatchDelay), 1)
	}

	for start := 0; start < len(snapshot) || start == 0; start += batchSize {
		if c.isStopped() {
			return nil
		}
		end := start + batchSize
		if end > len(snapshot) {
			end = len(snapshot)
		}
		batch := snapshot[start:end]
		first := start == 0

		c.post(func(cb schemas.Callbacks) {
			if first {
				cb.BindAllApps(batch)
			} else {
				cb.BindAppsAdded(batch)
			}
		})

		if batchSize == 0 {
			break
		}
		if limiter != nil && end < len(snapshot) {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// bindAllApps re-delivers the already loaded catalog to a fresh receiver.
func (c *cycle) bindAllApps() {
	snapshot := sortAppsByTitle(c.s.catalog.Snapshot())
	c.post(func(cb schemas.Callbacks) { cb.BindAllApps(snapshot) })
}

var titleCollator = collate.New(language.Und, collate.IgnoreCase)

func sortAppsByTitle(apps []schemas.AppInfo) []schemas.AppInfo {
	sort.SliceStable(apps, func(i, j int) bool {
		if cmp := titleCollator.CompareString(apps[i].Title, apps[j].Title); cmp != 0 {
			return cmp < 0
		}
		return apps[i].Component.Package < apps[j].Component.Package
	})
	return apps
}
