package schemas

import "context"

// -- UI Callback Interface --

// Callbacks is the surface the loader delivers results through. Implementations
// run on the delivery queue's goroutine, never on the loader's. The loader
// re-validates the attached receiver by identity before each call, so a
// detached or replaced receiver silently stops hearing about an old cycle.
type Callbacks interface {
	// GetCurrentScreen reports which workspace screen is visible, so its
	// widgets can be bound ahead of the others.
	GetCurrentScreen() int
	// IsCatalogViewVisible reports whether the all-apps view is showing,
	// which flips the load order of the two datasets.
	IsCatalogViewVisible() bool

	StartBinding()
	BindItems(items []Item, start, end int)
	BindDockItems(items []Item)
	BindFolders(folders map[int64]Item)
	BindWidget(widget *WidgetInfo)
	BindCustomWidget(widget *CustomWidgetInfo)
	FinishBindingItems()

	BindAllApps(apps []AppInfo)
	BindAppsAdded(apps []AppInfo)
	BindAppsUpdated(apps []AppInfo)
	BindAppsRemoved(apps []AppInfo)
}

// -- External Collaborator Interfaces --

// ActivitySource answers questions about installed packages and their
// launchable activities.
type ActivitySource interface {
	// LaunchableActivities lists every activity that belongs on the all-apps
	// list. An empty package name lists across all packages.
	LaunchableActivities(ctx context.Context, pkg string) ([]AppInfo, error)
	// ResolveIntent reports whether an intent still resolves to an activity.
	ResolveIntent(intent *LaunchIntent) (ComponentName, bool)
	// PackageInstalled reports whether the package is present at all.
	PackageInstalled(pkg string) bool
	// SafeMode reports whether the system booted in safe mode, in which
	// unresolvable providers are kept rather than deleted.
	SafeMode() bool
}

// WidgetRegistry resolves bound widget instances to their providers.
type WidgetRegistry interface {
	// ProviderFor returns the provider component behind a widget id, or
	// ok=false when the binding is stale.
	ProviderFor(widgetID int) (ComponentName, bool)
}

// LiveFolderRegistry resolves live folder content URIs.
type LiveFolderRegistry interface {
	// AuthorityInstalled reports whether a provider for the URI's authority
	// is still installed.
	AuthorityInstalled(uri string) bool
}

// IconSource supplies icon bitmaps. Decoding and theming live behind it.
type IconSource interface {
	// IconForComponent returns the icon for a resolved activity, or nil.
	IconForComponent(component ComponentName) []byte
	// IconFromResource loads a named drawable from another package, or nil.
	IconFromResource(pkg, resource string) []byte
	// FallbackIcon returns the generic icon used when nothing else resolves.
	FallbackIcon() []byte
}
