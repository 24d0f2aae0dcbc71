package schemas

// -- Store Row Schemas --

// FavoriteRow is the flat persisted form of a workspace item, one row per
// item in the favorites table. Optional columns use pointer or zero values.
type FavoriteRow struct {
	ID           int64  `json:"id"`
	Container    int64  `json:"container"`
	Screen       int    `json:"screen"`
	CellX        int    `json:"cell_x"`
	CellY        int    `json:"cell_y"`
	SpanX        int    `json:"span_x"`
	SpanY        int    `json:"span_y"`
	ItemType     int    `json:"item_type"`
	Title        string `json:"title"`
	Intent       string `json:"intent"`
	Icon         []byte `json:"icon,omitempty"`
	IconType     int    `json:"icon_type"`
	IconPackage  string `json:"icon_package"`
	IconResource string `json:"icon_resource"`
	OrderID      int    `json:"order_id"`
	WidgetID     int    `json:"widget_id"`
	URI          string `json:"uri"`
	DisplayMode  int    `json:"display_mode"`
}

// AppRow is one row of the app catalog table that backs the paged all-apps
// view. Position is the contiguous slot within the container page.
type AppRow struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Intent      string `json:"intent"`
	Container   int64  `json:"container"`
	Position    int    `json:"position"`
	ItemType    int    `json:"item_type"`
	SysApp      bool   `json:"sys_app"`
	PackageName string `json:"package_name"`
}

// AppInfo is one installed launchable activity as seen by the all-apps list.
type AppInfo struct {
	Component ComponentName
	Title     string
	Intent    *LaunchIntent
	SysApp    bool
}
