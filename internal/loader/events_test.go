package loader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/homegrid/api/schemas"
)

func markFirstLoadDone(s *Session) {
	s.mu.Lock()
	s.firstLoadDone = true
	s.mu.Unlock()
}

// flushQueue waits until everything posted before it has been delivered.
func flushQueue(t *testing.T, s *Session) {
	t.Helper()
	flushed := make(chan struct{})
	s.queue.Post(func() { close(flushed) })
	select {
	case <-flushed:
	case <-time.After(3 * time.Second):
		t.Fatal("delivery queue stalled")
	}
}

func TestOnPackageEvent_AddedDeliversDiff(t *testing.T) {
	env := newTestEnv(t)
	markFirstLoadDone(env.session)
	env.acts.apps["new.pkg"] = []schemas.AppInfo{
		appFor("new.pkg", ".B", "Beta"),
		appFor("new.pkg", ".A", "Alpha"),
	}
	env.session.AttachCallbacks(env.cb)

	env.session.OnPackageEvent(context.Background(), schemas.PackageEvent{
		Kind: schemas.PackageAdded, Package: "new.pkg",
	})
	waitForCall(t, env.cb, "BindAppsAdded(2)")

	env.cb.mu.Lock()
	defer env.cb.mu.Unlock()
	require.Len(t, env.cb.added, 1)
	assert.Equal(t, "Alpha", env.cb.added[0][0].Title)
	assert.Equal(t, "Beta", env.cb.added[0][1].Title)
	assert.Equal(t, 2, env.catalog.Len())
}

func TestOnPackageEvent_RemovedWithNoMatchIsSilent(t *testing.T) {
	env := newTestEnv(t)
	markFirstLoadDone(env.session)
	env.catalog.Add(appFor("other.pkg", ".Main", "Other"))
	env.catalog.DrainDiffs()
	env.session.AttachCallbacks(env.cb)

	env.session.OnPackageEvent(context.Background(), schemas.PackageEvent{
		Kind: schemas.PackageRemoved, Package: "ghost.pkg",
	})
	flushQueue(t, env.session)

	assert.Empty(t, env.cb.recorded())
	assert.Equal(t, 1, env.catalog.Len())
}

func TestOnPackageEvent_RemovedDeliversDiff(t *testing.T) {
	env := newTestEnv(t)
	markFirstLoadDone(env.session)
	env.catalog.Add(appFor("doomed.pkg", ".Main", "Doomed"))
	env.catalog.Add(appFor("other.pkg", ".Main", "Other"))
	env.catalog.DrainDiffs()
	env.session.AttachCallbacks(env.cb)

	env.session.OnPackageEvent(context.Background(), schemas.PackageEvent{
		Kind: schemas.PackageRemoved, Package: "doomed.pkg",
	})
	waitForCall(t, env.cb, "BindAppsRemoved(1)")

	env.cb.mu.Lock()
	defer env.cb.mu.Unlock()
	require.Len(t, env.cb.removed, 1)
	assert.Equal(t, "Doomed", env.cb.removed[0][0].Title)
	assert.Equal(t, 1, env.catalog.Len())
}

func TestOnPackageEvent_RemovedWhileReplacingIsDeferred(t *testing.T) {
	env := newTestEnv(t)
	markFirstLoadDone(env.session)
	env.catalog.Add(appFor("upgrading.pkg", ".Main", "Upgrading"))
	env.catalog.DrainDiffs()
	env.session.AttachCallbacks(env.cb)

	env.session.OnPackageEvent(context.Background(), schemas.PackageEvent{
		Kind: schemas.PackageRemoved, Package: "upgrading.pkg", Replacing: true,
	})
	flushQueue(t, env.session)

	assert.Empty(t, env.cb.recorded())
	assert.Equal(t, 1, env.catalog.Len(), "the matching add event carries the refresh")
}

func TestOnPackageEvent_ChangedDeliversUpdate(t *testing.T) {
	env := newTestEnv(t)
	markFirstLoadDone(env.session)
	env.catalog.Add(appFor("themed.pkg", ".Main", "Old Title"))
	env.catalog.DrainDiffs()
	env.acts.apps["themed.pkg"] = []schemas.AppInfo{appFor("themed.pkg", ".Main", "New Title")}
	env.session.AttachCallbacks(env.cb)

	env.session.OnPackageEvent(context.Background(), schemas.PackageEvent{
		Kind: schemas.PackageChanged, Package: "themed.pkg",
	})
	waitForCall(t, env.cb, "BindAppsUpdated(1)")

	env.cb.mu.Lock()
	defer env.cb.mu.Unlock()
	require.Len(t, env.cb.updated, 1)
	assert.Equal(t, "New Title", env.cb.updated[0][0].Title)
}

func TestOnPackageEvent_IgnoredBeforeFirstLoad(t *testing.T) {
	env := newTestEnv(t)
	env.acts.apps["early.pkg"] = []schemas.AppInfo{appFor("early.pkg", ".Main", "Early")}
	env.session.AttachCallbacks(env.cb)

	env.session.OnPackageEvent(context.Background(), schemas.PackageEvent{
		Kind: schemas.PackageAdded, Package: "early.pkg",
	})
	flushQueue(t, env.session)

	assert.Empty(t, env.cb.recorded())
	assert.Zero(t, env.catalog.Len())
}

func TestOnPackageEvent_MediaChangeReloadsEverything(t *testing.T) {
	env := newTestEnv(t)
	env.acts.apps["com.vendor.mail"] = []schemas.AppInfo{appFor("com.vendor.mail", ".Mail", "Mail")}
	env.store.rows = []schemas.FavoriteRow{shortcutRow(1, 0, 0, 0)}

	env.session.AttachCallbacks(env.cb)
	env.session.StartLoader(context.Background(), false)
	waitForCall(t, env.cb, "BindAllApps(1)")
	waitForIdleSession(t, env.session)
	require.Equal(t, 1, env.store.queries())

	env.session.OnPackageEvent(context.Background(), schemas.PackageEvent{Kind: schemas.MediaUnavailable})
	require.Eventually(t, func() bool {
		return env.store.queries() == 2
	}, 3*time.Second, 5*time.Millisecond, "a media change must force a full reload")
	waitForIdleSession(t, env.session)
	assert.True(t, env.session.WorkspaceLoaded())
	assert.True(t, env.session.AllAppsLoaded())
}
