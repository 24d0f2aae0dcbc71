// Package system implements the provider interfaces against a JSON manifest
// describing the installed packages, their launchable activities, widget
// providers, and live folder authorities. It stands in for the platform's
// package manager so the CLI can run against a plain file.
package system

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/xkilldash9x/homegrid/api/schemas"
)

var manifestJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// ActivityManifest is one launchable activity of a package.
type ActivityManifest struct {
	Class string `json:"class"`
	Title string `json:"title"`
	// Icon is an optional base64-encoded bitmap.
	Icon string `json:"icon,omitempty"`
}

// PackageManifest is one installed package.
type PackageManifest struct {
	Name       string             `json:"name"`
	SysApp     bool               `json:"sys_app,omitempty"`
	Activities []ActivityManifest `json:"activities,omitempty"`
	// Resources maps drawable names to base64-encoded bitmaps.
	Resources map[string]string `json:"resources,omitempty"`
}

// WidgetBinding maps a bound widget instance to its provider component.
type WidgetBinding struct {
	WidgetID int                   `json:"widget_id"`
	Provider schemas.ComponentName `json:"provider"`
}

// Manifest is the root document.
type Manifest struct {
	SafeMode    bool              `json:"safe_mode,omitempty"`
	Packages    []PackageManifest `json:"packages"`
	Widgets     []WidgetBinding   `json:"widgets,omitempty"`
	Authorities []string          `json:"authorities,omitempty"`
	// FallbackIcon is the base64-encoded icon used when nothing else resolves.
	FallbackIcon string `json:"fallback_icon,omitempty"`
}

// Providers serves every loader provider interface from one parsed manifest.
type Providers struct {
	mu          sync.RWMutex
	safeMode    bool
	packages    map[string]PackageManifest
	widgets     map[int]schemas.ComponentName
	authorities map[string]bool
	icons       map[schemas.ComponentName][]byte
	resources   map[string][]byte
	fallback    []byte
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Providers, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := manifestJSON.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return NewProviders(m)
}

// NewProviders indexes a manifest for lookup.
func NewProviders(m Manifest) (*Providers, error) {
	p := &Providers{
		safeMode:    m.SafeMode,
		packages:    make(map[string]PackageManifest, len(m.Packages)),
		widgets:     make(map[int]schemas.ComponentName, len(m.Widgets)),
		authorities: make(map[string]bool, len(m.Authorities)),
		icons:       map[schemas.ComponentName][]byte{},
		resources:   map[string][]byte{},
	}

	for _, pkg := range m.Packages {
		p.packages[pkg.Name] = pkg
		for _, act := range pkg.Activities {
			if act.Icon == "" {
				continue
			}
			blob, err := base64.StdEncoding.DecodeString(act.Icon)
			if err != nil {
				return nil, fmt.Errorf("bad icon for %s/%s: %w", pkg.Name, act.Class, err)
			}
			p.icons[schemas.ComponentName{Package: pkg.Name, Class: act.Class}] = blob
		}
		for name, encoded := range pkg.Resources {
			blob, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("bad resource %s in %s: %w", name, pkg.Name, err)
			}
			p.resources[pkg.Name+"/"+name] = blob
		}
	}
	for _, w := range m.Widgets {
		p.widgets[w.WidgetID] = w.Provider
	}
	for _, a := range m.Authorities {
		p.authorities[a] = true
	}
	if m.FallbackIcon != "" {
		blob, err := base64.StdEncoding.DecodeString(m.FallbackIcon)
		if err != nil {
			return nil, fmt.Errorf("bad fallback icon: %w", err)
		}
		p.fallback = blob
	}
	return p, nil
}

// LaunchableActivities lists the activities of one package, or of every
// package when pkg is empty.
func (p *Providers) LaunchableActivities(ctx context.Context, pkg string) ([]schemas.AppInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var apps []schemas.AppInfo
	appendPackage := func(m PackageManifest) {
		for _, act := range m.Activities {
			component := schemas.ComponentName{Package: m.Name, Class: act.Class}
			apps = append(apps, schemas.AppInfo{
				Component: component,
				Title:     act.Title,
				SysApp:    m.SysApp,
				Intent: &schemas.LaunchIntent{
					Action:    "launch",
					Component: &component,
				},
			})
		}
	}

	if pkg != "" {
		m, ok := p.packages[pkg]
		if !ok {
			return nil, fmt.Errorf("package %s is not installed", pkg)
		}
		appendPackage(m)
		return apps, nil
	}
	for _, m := range p.packages {
		appendPackage(m)
	}
	return apps, nil
}

// ResolveIntent reports whether the intent's component (or its package's
// first activity, for component-less intents) is still present.
func (p *Providers) ResolveIntent(intent *schemas.LaunchIntent) (schemas.ComponentName, bool) {
	if intent == nil || intent.Component == nil {
		return schemas.ComponentName{}, false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	m, ok := p.packages[intent.Component.Package]
	if !ok {
		return schemas.ComponentName{}, false
	}
	for _, act := range m.Activities {
		if act.Class == intent.Component.Class {
			return *intent.Component, true
		}
	}
	return schemas.ComponentName{}, false
}

// PackageInstalled reports whether the package appears in the manifest.
func (p *Providers) PackageInstalled(pkg string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.packages[pkg]
	return ok
}

// SafeMode reports the manifest's safe-mode flag.
func (p *Providers) SafeMode() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.safeMode
}

// ProviderFor resolves a bound widget instance to its provider component.
func (p *Providers) ProviderFor(widgetID int) (schemas.ComponentName, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.widgets[widgetID]
	return c, ok
}

// AuthorityInstalled reports whether a provider serves the URI's authority.
func (p *Providers) AuthorityInstalled(uri string) bool {
	authority := uri
	if rest, ok := strings.CutPrefix(uri, "content://"); ok {
		authority = rest
	}
	if i := strings.IndexByte(authority, '/'); i >= 0 {
		authority = authority[:i]
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.authorities[authority]
}

// IconForComponent returns the activity's manifest icon, or nil.
func (p *Providers) IconForComponent(component schemas.ComponentName) []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.icons[component]
}

// IconFromResource returns a named drawable from a package, or nil.
func (p *Providers) IconFromResource(pkg, resource string) []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resources[pkg+"/"+resource]
}

// FallbackIcon returns the manifest fallback, or a built-in placeholder.
func (p *Providers) FallbackIcon() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.fallback) > 0 {
		return p.fallback
	}
	return defaultFallbackIcon
}

// defaultFallbackIcon is a 1x1 transparent PNG.
var defaultFallbackIcon = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
