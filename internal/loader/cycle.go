package loader

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/xkilldash9x/homegrid/api/schemas"
	"go.uber.org/zap"
)

// cycle is one run of the two-phase load. It carries its own stop flag and a
// done channel the next cycle joins on before starting.
type cycle struct {
	s           *Session
	id          string
	log         *zap.Logger
	isLaunching bool
	prev        *cycle

	stopped atomic.Bool
	done    chan struct{}
}

func newCycle(s *Session, isLaunching bool, prev *cycle) *cycle {
	id := uuid.NewString()
	return &cycle{
		s:           s,
		id:          id,
		log:         s.log.With(zap.String("cycle", id)),
		isLaunching: isLaunching,
		prev:        prev,
		done:        make(chan struct{}),
	}
}

func (c *cycle) stop()           { c.stopped.Store(true) }
func (c *cycle) isStopped() bool { return c.stopped.Load() }

// run drives the cycle: join the predecessor, order the two phases by which
// view is visible, load or rebind each dataset, then reconcile the app
// catalog table.
func (c *cycle) run(ctx context.Context) {
	defer close(c.done)
	defer c.s.finishCycle(c)

	if c.prev != nil {
		c.log.Debug("Waiting for previous cycle to finish")
		select {
		case <-c.prev.done:
		case <-ctx.Done():
			c.stop()
			return
		}
	}
	if c.isStopped() || ctx.Err() != nil {
		return
	}

	// The visible dataset loads first. The workspace wins by default.
	workspaceFirst := true
	if cb := c.s.attachedCallbacks(); cb != nil && cb.IsCatalogViewVisible() {
		workspaceFirst = false
	}

	if workspaceFirst {
		c.runWorkspacePhase(ctx)
		c.runAllAppsPhase(ctx)
	} else {
		c.runAllAppsPhase(ctx)
		c.runWorkspacePhase(ctx)
	}

	if c.isStopped() {
		c.log.Info("Load cycle stopped")
		return
	}
	c.log.Info("Load cycle finished")
}

// runWorkspacePhase loads the workspace unless a previous cycle already did,
// then binds it. The sticky flag is only set once an unstopped load ran to
// completion.
func (c *cycle) runWorkspacePhase(ctx context.Context) {
	if c.isStopped() {
		return
	}

	if !c.s.WorkspaceLoaded() {
		if err := c.loadWorkspace(ctx); err != nil {
			c.log.Error("Workspace load failed", zap.Error(err))
			c.stop()
			return
		}
		if c.isStopped() {
			return
		}
		c.s.setWorkspaceLoaded(true)
	}

	c.bindWorkspace()
}

// runAllAppsPhase loads and binds the all-apps list in batches, or rebinds
// the cached list when the sticky flag is already set. A completed load also
// reconciles the app catalog table against the installed set.
func (c *cycle) runAllAppsPhase(ctx context.Context) {
	if c.isStopped() {
		return
	}

	if c.s.AllAppsLoaded() {
		c.bindAllApps()
		return
	}

	if err := c.loadAllAppsByBatch(ctx); err != nil {
		c.log.Error("All-apps load failed", zap.Error(err))
		c.stop()
		return
	}
	if c.isStopped() {
		return
	}
	c.s.setAllAppsLoaded(true)

	c.reconcileAppsTable(ctx)
}

func (c *cycle) reconcileAppsTable(ctx context.Context) {
	added, removed, err := c.s.store.ReconcileApps(ctx,
		c.s.catalog.Snapshot(),
		c.s.cfg.Catalog.SelfPackage,
		c.s.cfg.Catalog.ThemePrefix)
	if err != nil {
		// Reconciliation is housekeeping; a failure never fails the load.
		c.log.Warn("App catalog table reconciliation failed", zap.Error(err))
		return
	}
	if added > 0 || removed > 0 {
		c.log.Debug("App catalog table updated", zap.Int("added", added), zap.Int("removed", removed))
	}
}

// post queues a callback delivery. The receiver is captured now and
// re-validated by identity at delivery time, so a detached or replaced
// receiver, or a superseded cycle, silently drops the closure.
func (c *cycle) post(run func(cb schemas.Callbacks)) {
	cb := c.s.attachedCallbacks()
	if cb == nil {
		return
	}
	c.s.queue.Post(func() {
		if c.isStopped() {
			return
		}
		if c.s.attachedCallbacks() != cb {
			c.log.Debug("Callbacks changed since post, dropping delivery")
			return
		}
		run(cb)
	})
}
