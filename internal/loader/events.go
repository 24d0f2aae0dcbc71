package loader

import (
	"context"

	"github.com/xkilldash9x/homegrid/api/schemas"
	"github.com/xkilldash9x/homegrid/internal/catalog"
	"go.uber.org/zap"
)

// OnPackageEvent applies an install, removal, or update to the catalog and
// delivers the resulting diff to the attached receiver. Media events invalidate
// both loaded datasets and restart the loader instead, since items on external
// storage may have appeared or vanished wholesale.
func (s *Session) OnPackageEvent(ctx context.Context, ev schemas.PackageEvent) {
	switch ev.Kind {
	case schemas.MediaAvailable, schemas.MediaUnavailable:
		s.log.Info("External media changed, reloading", zap.Stringer("kind", ev.Kind))
		s.setWorkspaceLoaded(false)
		s.setAllAppsLoaded(false)
		s.StartLoader(ctx, false)
		return
	}

	// Until the first full load lands there is no catalog to diff against.
	if !s.isFirstLoadDone() {
		s.log.Debug("Dropping package event before first load", zap.Stringer("kind", ev.Kind), zap.String("package", ev.Package))
		return
	}

	var err error
	switch ev.Kind {
	case schemas.PackageAdded:
		if ev.Replacing {
			err = s.catalog.UpdatePackage(ctx, s.providers.Activities, ev.Package)
		} else {
			err = s.catalog.AddPackage(ctx, s.providers.Activities, ev.Package)
		}
	case schemas.PackageChanged:
		err = s.catalog.UpdatePackage(ctx, s.providers.Activities, ev.Package)
	case schemas.PackageRemoved:
		if ev.Replacing {
			// The matching add event carries the refresh.
			return
		}
		s.catalog.RemovePackage(ev.Package)
	default:
		s.log.Warn("Unknown package event", zap.Stringer("kind", ev.Kind))
		return
	}
	if err != nil {
		s.log.Warn("Package event failed against the activity source",
			zap.Stringer("kind", ev.Kind), zap.String("package", ev.Package), zap.Error(err))
		return
	}

	diffs := s.catalog.DrainDiffs()
	if diffs.Empty() {
		return
	}
	s.postDiffs(diffs)
}

func (s *Session) postDiffs(diffs catalog.Diffs) {
	cb := s.attachedCallbacks()
	if cb == nil {
		return
	}
	s.queue.Post(func() {
		if s.attachedCallbacks() != cb {
			return
		}
		if len(diffs.Added) > 0 {
			cb.BindAppsAdded(sortAppsByTitle(diffs.Added))
		}
		if len(diffs.Modified) > 0 {
			cb.BindAppsUpdated(sortAppsByTitle(diffs.Modified))
		}
		if len(diffs.Removed) > 0 {
			cb.BindAppsRemoved(diffs.Removed)
		}
	})
}
