package schemas

// -- Workspace Item Model --

// NoID marks an item that has not been persisted yet.
const NoID int64 = -1

// Well-known container ids. Anything positive is the id of a folder row.
const (
	ContainerDesktop int64 = -100
	ContainerDock    int64 = -200
)

// ItemType discriminates the persisted representation of a workspace item.
type ItemType int

const (
	ItemTypeApplication ItemType = iota
	ItemTypeShortcut
	ItemTypeUserFolder
	ItemTypeLiveFolder
	ItemTypeWidget
	ItemTypeCustomWidget
)

// String returns the storage label for the item type.
func (t ItemType) String() string {
	switch t {
	case ItemTypeApplication:
		return "application"
	case ItemTypeShortcut:
		return "shortcut"
	case ItemTypeUserFolder:
		return "user_folder"
	case ItemTypeLiveFolder:
		return "live_folder"
	case ItemTypeWidget:
		return "widget"
	case ItemTypeCustomWidget:
		return "custom_widget"
	default:
		return "unknown"
	}
}

// IconProvenance records where a shortcut's icon came from, which decides
// what gets written back to the store.
type IconProvenance int

const (
	IconFromResource IconProvenance = iota
	IconFromBitmap
	IconFromFallback
)

// CustomWidgetType enumerates the built-in widgets that are not backed by an
// external provider.
type CustomWidgetType int

const (
	CustomWidgetLockScreen CustomWidgetType = iota
	CustomWidgetCleanMemory
)

// ComponentName identifies one launchable activity inside a package.
type ComponentName struct {
	Package string `json:"package"`
	Class   string `json:"class"`
}

// LaunchIntent is the serializable launch target attached to shortcuts and
// live folders. It round-trips through the Intent column as JSON.
type LaunchIntent struct {
	Action    string            `json:"action"`
	Component *ComponentName    `json:"component,omitempty"`
	Data      string            `json:"data,omitempty"`
	Category  string            `json:"category,omitempty"`
	Extras    map[string]string `json:"extras,omitempty"`
}

// Item is the closed set of things that can occupy workspace cells. Only the
// concrete types in this package implement it.
type Item interface {
	// Info returns the embedded placement record shared by all variants.
	Info() *ItemInfo
	sealed()
}

// ItemInfo carries the placement every workspace item has: which container it
// lives in, which screen, and the cell rectangle it spans.
type ItemInfo struct {
	ID        int64
	ItemType  ItemType
	Container int64
	Screen    int
	CellX     int
	CellY     int
	SpanX     int
	SpanY     int
	OrderID   int
}

func (i *ItemInfo) Info() *ItemInfo { return i }
func (i *ItemInfo) sealed()         {}

// NewItemInfo returns an ItemInfo with the unpersisted-id sentinel and a 1x1 span.
func NewItemInfo(itemType ItemType) ItemInfo {
	return ItemInfo{ID: NoID, ItemType: itemType, Container: ContainerDesktop, SpanX: 1, SpanY: 1}
}

// ShortcutInfo is an application launcher or a user-created shortcut.
type ShortcutInfo struct {
	ItemInfo
	Title  string
	Intent *LaunchIntent

	// Icon provenance. Exactly one of the sources below is authoritative.
	IconType     IconProvenance
	IconPackage  string
	IconResource string
	IconBlob     []byte
	CustomIcon   bool
	FallbackIcon bool
}

// FolderInfo is the state shared by user folders and live folders.
type FolderInfo struct {
	ItemInfo
	Title  string
	Opened bool
}

// UserFolderInfo is a folder whose contents are other workspace shortcuts.
type UserFolderInfo struct {
	FolderInfo
	Contents []*ShortcutInfo
}

// Add appends a shortcut to the folder contents.
func (f *UserFolderInfo) Add(s *ShortcutInfo) {
	f.Contents = append(f.Contents, s)
}

// Remove drops a shortcut from the folder contents, matching by identity.
func (f *UserFolderInfo) Remove(s *ShortcutInfo) {
	for i, c := range f.Contents {
		if c == s {
			f.Contents = append(f.Contents[:i], f.Contents[i+1:]...)
			return
		}
	}
}

// LiveFolderInfo is a folder whose contents come from an external content
// provider addressed by URI.
type LiveFolderInfo struct {
	FolderInfo
	URI         string
	BaseIntent  *LaunchIntent
	DisplayMode int

	IconType     IconProvenance
	IconPackage  string
	IconResource string
}

// WidgetInfo is a widget backed by an external provider instance.
type WidgetInfo struct {
	ItemInfo
	WidgetID int
}

// CustomWidgetInfo is one of the launcher's built-in widgets.
type CustomWidgetInfo struct {
	ItemInfo
	WidgetType CustomWidgetType
}
