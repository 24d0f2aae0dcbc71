// -- cmd/load.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/xkilldash9x/homegrid/api/schemas"
	"github.com/xkilldash9x/homegrid/internal/catalog"
	"github.com/xkilldash9x/homegrid/internal/loader"
	"github.com/xkilldash9x/homegrid/internal/observability"
	"github.com/xkilldash9x/homegrid/internal/store"
	"github.com/xkilldash9x/homegrid/internal/system"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newLoadCmd() *cobra.Command {
	var (
		manifestPath  string
		isLaunching   bool
		currentScreen int
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Run one full load cycle against the workspace store and print the result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, manifestPath, isLaunching, currentScreen)
		},
	}
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "path to the installed-packages manifest (required)")
	cmd.Flags().BoolVar(&isLaunching, "launching", false, "treat this as the launch-time load")
	cmd.Flags().IntVar(&currentScreen, "screen", 0, "screen considered visible for widget ordering")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func runLoad(cmd *cobra.Command, manifestPath string, isLaunching bool, currentScreen int) error {
	log := observability.GetLogger().Named("load")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := system.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	if cfg.Database.URL == "" {
		return errors.New("database.url must be configured")
	}
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	st, err := store.New(ctx, pool, observability.GetLogger())
	if err != nil {
		return err
	}

	session := loader.NewSession(cfg, st, catalog.New(observability.GetLogger()), loader.Providers{
		Activities:  providers,
		Widgets:     providers,
		LiveFolders: providers,
		Icons:       providers,
	}, observability.GetLogger())
	defer session.Close()

	cb := newPrintCallbacks(cmd.OutOrStdout(), currentScreen)
	session.AttachCallbacks(cb)
	defer session.DetachCallbacks(cb)

	session.StartLoader(ctx, isLaunching)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return waitOrCancel(gctx, cb.workspaceDone) })
	g.Go(func() error { return waitOrCancel(gctx, cb.allAppsDone) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load did not complete: %w", err)
	}

	log.Info("Load cycle complete",
		zap.Bool("workspace_loaded", session.WorkspaceLoaded()),
		zap.Bool("all_apps_loaded", session.AllAppsLoaded()))
	return nil
}

func waitOrCancel(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// printCallbacks renders every delivery as a line on the command's output and
// signals completion of each dataset through its done channel.
type printCallbacks struct {
	mu            sync.Mutex
	out           io.Writer
	currentScreen int

	workspaceOnce sync.Once
	workspaceDone chan struct{}
	allAppsOnce   sync.Once
	allAppsDone   chan struct{}
}

func newPrintCallbacks(out io.Writer, currentScreen int) *printCallbacks {
	return &printCallbacks{
		out:           out,
		currentScreen: currentScreen,
		workspaceDone: make(chan struct{}),
		allAppsDone:   make(chan struct{}),
	}
}

func (p *printCallbacks) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printCallbacks) GetCurrentScreen() int      { return p.currentScreen }
func (p *printCallbacks) IsCatalogViewVisible() bool { return false }

func (p *printCallbacks) StartBinding() {
	p.printf("workspace: binding started")
}

func (p *printCallbacks) BindItems(items []schemas.Item, start, end int) {
	for _, item := range items[start:end] {
		info := item.Info()
		label := info.ItemType.String()
		if s, ok := item.(*schemas.ShortcutInfo); ok {
			label = s.Title
		}
		p.printf("workspace: screen %d cell (%d,%d) %dx%d  %s",
			info.Screen, info.CellX, info.CellY, info.SpanX, info.SpanY, label)
	}
}

func (p *printCallbacks) BindDockItems(items []schemas.Item) {
	p.printf("dock: %d items", len(items))
}

func (p *printCallbacks) BindFolders(folders map[int64]schemas.Item) {
	p.printf("folders: %d", len(folders))
}

func (p *printCallbacks) BindWidget(widget *schemas.WidgetInfo) {
	p.printf("widget %d on screen %d", widget.WidgetID, widget.Screen)
}

func (p *printCallbacks) BindCustomWidget(widget *schemas.CustomWidgetInfo) {
	p.printf("custom widget %d on screen %d", widget.WidgetType, widget.Screen)
}

func (p *printCallbacks) FinishBindingItems() {
	p.printf("workspace: binding finished")
	p.workspaceOnce.Do(func() { close(p.workspaceDone) })
}

func (p *printCallbacks) BindAllApps(apps []schemas.AppInfo) {
	for _, app := range apps {
		p.printf("app: %s (%s/%s)", app.Title, app.Component.Package, app.Component.Class)
	}
	p.allAppsOnce.Do(func() { close(p.allAppsDone) })
}

func (p *printCallbacks) BindAppsAdded(apps []schemas.AppInfo) {
	p.printf("apps added: %d", len(apps))
}

func (p *printCallbacks) BindAppsUpdated(apps []schemas.AppInfo) {
	p.printf("apps updated: %d", len(apps))
}

func (p *printCallbacks) BindAppsRemoved(apps []schemas.AppInfo) {
	p.printf("apps removed: %d", len(apps))
}
