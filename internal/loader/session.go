// Package loader implements the cancelable, restartable two-phase load of
// the workspace and the all-apps list, and the delivery of results to the
// attached UI callbacks.
package loader

import (
	"context"
	"sync"

	"github.com/xkilldash9x/homegrid/api/schemas"
	"github.com/xkilldash9x/homegrid/internal/catalog"
	"github.com/xkilldash9x/homegrid/internal/config"
	"github.com/xkilldash9x/homegrid/internal/grid"
	"go.uber.org/zap"
)

// WorkspaceStore is the slice of the record store the loader depends on.
type WorkspaceStore interface {
	QueryAll(ctx context.Context) ([]schemas.FavoriteRow, error)
	DeleteItems(ctx context.Context, ids []int64) error
	MaxScreen(ctx context.Context) (int, error)
	ReconcileApps(ctx context.Context, installed []schemas.AppInfo, selfPackage, themePrefix string) (added, removed int, err error)
}

// Providers bundles the external collaborators the loader validates rows
// against.
type Providers struct {
	Activities  schemas.ActivitySource
	Widgets     schemas.WidgetRegistry
	LiveFolders schemas.LiveFolderRegistry
	Icons       schemas.IconSource
}

// Session owns all loader state: the attached callbacks, the sticky
// per-dataset loaded flags, the running cycle, and the delivery queue. One
// mutex guards all of it.
type Session struct {
	mu sync.Mutex

	callbacks schemas.Callbacks
	current   *cycle

	// Sticky flags. Once a dataset has loaded, later cycles only rebind it.
	workspaceLoaded bool
	allAppsLoaded   bool
	// firstLoadDone gates package events: before the first completed load,
	// only media events are honored.
	firstLoadDone bool

	// Workspace state from the last completed load, kept for rebinding.
	items   []schemas.Item
	folders map[int64]schemas.Item

	queue     *DeliveryQueue
	store     WorkspaceStore
	catalog   *catalog.Catalog
	providers Providers
	cfg       *config.Config
	metrics   grid.Metrics
	log       *zap.Logger
}

// NewSession wires a loader session. It does not start loading.
func NewSession(cfg *config.Config, st WorkspaceStore, cat *catalog.Catalog, providers Providers, logger *zap.Logger) *Session {
	return &Session{
		queue:     NewDeliveryQueue(),
		store:     st,
		catalog:   cat,
		providers: providers,
		cfg:       cfg,
		metrics:   grid.MetricsFromConfig(cfg.Grid),
		folders:   map[int64]schemas.Item{},
		log:       logger.Named("loader"),
	}
}

// AttachCallbacks sets the receiver for future deliveries. Closures already
// queued for an earlier receiver will notice the change and drop themselves.
func (s *Session) AttachCallbacks(cb schemas.Callbacks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = cb
}

// DetachCallbacks clears the receiver if it is still the attached one.
// A receiver replaced by a newer attach stays attached.
func (s *Session) DetachCallbacks(cb schemas.Callbacks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.callbacks == cb {
		s.callbacks = nil
	}
}

func (s *Session) attachedCallbacks() schemas.Callbacks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callbacks
}

// StartLoader begins a load cycle. A cycle already running is told to stop
// and the new cycle waits for it to finish before touching any data; the
// wait happens on the new cycle's goroutine, never the caller's. With no
// callbacks attached this is a no-op.
func (s *Session) StartLoader(ctx context.Context, isLaunching bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.callbacks == nil {
		s.log.Debug("StartLoader without callbacks attached, skipping")
		return
	}

	prev := s.current
	if prev != nil {
		prev.stop()
		// A superseded launch-time cycle keeps its urgency.
		if prev.isLaunching {
			isLaunching = true
		}
		s.queue.Cancel()
	}

	c := newCycle(s, isLaunching, prev)
	s.current = c
	s.log.Info("Starting load cycle",
		zap.String("cycle", c.id),
		zap.Bool("is_launching", isLaunching),
		zap.Bool("superseding", prev != nil))
	go c.run(ctx)
}

// StopLoader flags the running cycle stopped and drops undelivered
// callbacks. The cycle notices at its next row or batch boundary.
func (s *Session) StopLoader() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.stop()
	}
	s.queue.Cancel()
}

// Close stops the loader and shuts down the delivery queue. The session is
// unusable afterwards.
func (s *Session) Close() {
	s.StopLoader()

	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current != nil {
		<-current.done
	}

	s.queue.Close()
}

// WorkspaceLoaded reports whether the workspace dataset has completed a load.
func (s *Session) WorkspaceLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspaceLoaded
}

// AllAppsLoaded reports whether the all-apps dataset has completed a load.
func (s *Session) AllAppsLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allAppsLoaded
}

func (s *Session) setWorkspaceLoaded(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaceLoaded = v
}

func (s *Session) setAllAppsLoaded(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allAppsLoaded = v
}

func (s *Session) setWorkspaceState(items []schemas.Item, folders map[int64]schemas.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.folders = folders
}

func (s *Session) workspaceState() ([]schemas.Item, map[int64]schemas.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items, s.folders
}

// finishCycle records a cycle's completion and marks the first full load.
func (s *Session) finishCycle(c *cycle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == c {
		s.current = nil
	}
	if !c.isStopped() {
		s.firstLoadDone = true
	}
}

func (s *Session) isFirstLoadDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstLoadDone
}
