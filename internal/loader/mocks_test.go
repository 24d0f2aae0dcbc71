package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/xkilldash9x/homegrid/api/schemas"
)

// mockCallbacks records every delivery, in order, as a readable string.
type mockCallbacks struct {
	mu             sync.Mutex
	calls          []string
	currentScreen  int
	catalogVisible bool

	allApps []schemas.AppInfo
	added   [][]schemas.AppInfo
	updated [][]schemas.AppInfo
	removed [][]schemas.AppInfo
}

func (m *mockCallbacks) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockCallbacks) recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockCallbacks) has(call string) bool {
	for _, c := range m.recorded() {
		if c == call {
			return true
		}
	}
	return false
}

func (m *mockCallbacks) GetCurrentScreen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentScreen
}

func (m *mockCallbacks) IsCatalogViewVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalogVisible
}

func (m *mockCallbacks) StartBinding() { m.record("StartBinding") }

func (m *mockCallbacks) BindItems(items []schemas.Item, start, end int) {
	m.record(fmt.Sprintf("BindItems[%d:%d]", start, end))
}

func (m *mockCallbacks) BindDockItems(items []schemas.Item) {
	m.record(fmt.Sprintf("BindDockItems(%d)", len(items)))
}

func (m *mockCallbacks) BindFolders(folders map[int64]schemas.Item) {
	m.record(fmt.Sprintf("BindFolders(%d)", len(folders)))
}

func (m *mockCallbacks) BindWidget(widget *schemas.WidgetInfo) {
	m.record(fmt.Sprintf("BindWidget(screen=%d)", widget.Screen))
}

func (m *mockCallbacks) BindCustomWidget(widget *schemas.CustomWidgetInfo) {
	m.record(fmt.Sprintf("BindCustomWidget(screen=%d)", widget.Screen))
}

func (m *mockCallbacks) FinishBindingItems() { m.record("FinishBindingItems") }

func (m *mockCallbacks) BindAllApps(apps []schemas.AppInfo) {
	m.mu.Lock()
	m.allApps = append([]schemas.AppInfo(nil), apps...)
	m.mu.Unlock()
	m.record(fmt.Sprintf("BindAllApps(%d)", len(apps)))
}

func (m *mockCallbacks) BindAppsAdded(apps []schemas.AppInfo) {
	m.mu.Lock()
	m.added = append(m.added, append([]schemas.AppInfo(nil), apps...))
	m.mu.Unlock()
	m.record(fmt.Sprintf("BindAppsAdded(%d)", len(apps)))
}

func (m *mockCallbacks) BindAppsUpdated(apps []schemas.AppInfo) {
	m.mu.Lock()
	m.updated = append(m.updated, append([]schemas.AppInfo(nil), apps...))
	m.mu.Unlock()
	m.record(fmt.Sprintf("BindAppsUpdated(%d)", len(apps)))
}

func (m *mockCallbacks) BindAppsRemoved(apps []schemas.AppInfo) {
	m.mu.Lock()
	m.removed = append(m.removed, append([]schemas.AppInfo(nil), apps...))
	m.mu.Unlock()
	m.record(fmt.Sprintf("BindAppsRemoved(%d)", len(apps)))
}

// mockStore is an in-memory WorkspaceStore. Setting queryGate makes QueryAll
// block until the channel closes, which lets tests hold a cycle mid-load.
type mockStore struct {
	mu           sync.Mutex
	rows         []schemas.FavoriteRow
	queryGate    chan struct{}
	queryStarted chan struct{}
	queryErr     error
	queryCount   int
	maxScreen    int

	deleted      [][]int64
	deleteErr    error
	reconciled   [][]schemas.AppInfo
	reconcileErr error
}

func (m *mockStore) QueryAll(ctx context.Context) ([]schemas.FavoriteRow, error) {
	m.mu.Lock()
	m.queryCount++
	gate := m.queryGate
	started := m.queryStarted
	m.mu.Unlock()
	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return append([]schemas.FavoriteRow(nil), m.rows...), nil
}

func (m *mockStore) DeleteItems(ctx context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, append([]int64(nil), ids...))
	return m.deleteErr
}

func (m *mockStore) MaxScreen(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxScreen, nil
}

func (m *mockStore) ReconcileApps(ctx context.Context, installed []schemas.AppInfo, selfPackage, themePrefix string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconciled = append(m.reconciled, append([]schemas.AppInfo(nil), installed...))
	return 0, 0, m.reconcileErr
}

func (m *mockStore) deletions() [][]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]int64(nil), m.deleted...)
}

func (m *mockStore) queries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCount
}

func (m *mockStore) reconcileCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reconciled)
}

// mockActivities serves launchable activities from a per-package map.
type mockActivities struct {
	mu           sync.Mutex
	apps         map[string][]schemas.AppInfo
	listErr      error
	unresolvable map[string]bool
	safeMode     bool
}

func (m *mockActivities) LaunchableActivities(ctx context.Context, pkg string) ([]schemas.AppInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	if pkg != "" {
		return append([]schemas.AppInfo(nil), m.apps[pkg]...), nil
	}
	var all []schemas.AppInfo
	for _, apps := range m.apps {
		all = append(all, apps...)
	}
	return all, nil
}

func (m *mockActivities) ResolveIntent(intent *schemas.LaunchIntent) (schemas.ComponentName, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if intent == nil || intent.Component == nil {
		return schemas.ComponentName{}, false
	}
	if m.unresolvable[intent.Component.Package] {
		return schemas.ComponentName{}, false
	}
	return *intent.Component, true
}

func (m *mockActivities) PackageInstalled(pkg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.apps[pkg]
	return ok
}

func (m *mockActivities) SafeMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.safeMode
}

type mockWidgets struct {
	mu        sync.Mutex
	providers map[int]schemas.ComponentName
}

func (m *mockWidgets) ProviderFor(widgetID int) (schemas.ComponentName, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.providers[widgetID]
	return c, ok
}

type mockLiveFolders struct {
	mu        sync.Mutex
	installed map[string]bool
}

func (m *mockLiveFolders) AuthorityInstalled(uri string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installed[uri]
}

type mockIcons struct {
	mu        sync.Mutex
	byComp    map[schemas.ComponentName][]byte
	resources map[string][]byte
	fallback  []byte
}

func (m *mockIcons) IconForComponent(component schemas.ComponentName) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byComp[component]
}

func (m *mockIcons) IconFromResource(pkg, resource string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resources[pkg+"/"+resource]
}

func (m *mockIcons) FallbackIcon() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fallback
}
