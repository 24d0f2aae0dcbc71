package schemas

// -- Package Event Schemas --

// PackageEventKind tags what happened to a package or to external storage.
type PackageEventKind int

const (
	PackageAdded PackageEventKind = iota
	PackageRemoved
	PackageChanged
	MediaAvailable
	MediaUnavailable
)

// String returns the event kind label used in logs.
func (k PackageEventKind) String() string {
	switch k {
	case PackageAdded:
		return "added"
	case PackageRemoved:
		return "removed"
	case PackageChanged:
		return "changed"
	case MediaAvailable:
		return "media_available"
	case MediaUnavailable:
		return "media_unavailable"
	default:
		return "unknown"
	}
}

// PackageEvent is one install/remove/update notification from the platform.
// Media events carry the affected package list in Packages instead of Package.
type PackageEvent struct {
	Kind      PackageEventKind
	Package   string
	Packages  []string
	Replacing bool
}
