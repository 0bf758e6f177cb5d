// Package shell hosts the tab workspace of one page shell: it mounts the
// tab registry, listens for open-tab signals and builds the render model
// of the tab strip and content area.
package shell

import (
	"context"
	"sync"

	"github.com/bnema/careshell/internal/app/messaging"
	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/application/usecase"
	"github.com/bnema/careshell/internal/domain/entity"
	"github.com/bnema/careshell/internal/logging"
)

// TabButton is one entry of the tab strip.
type TabButton struct {
	ID     string
	Title  string
	Href   string
	Active bool
}

// Pane is the mounted content of one tab. Only the active pane is visible;
// the others stay mounted but hidden.
type Pane struct {
	TabID  string
	View   usecase.ResolvedView
	Hidden bool
}

// Surface is the render model of the workspace.
type Surface struct {
	Tabs     []TabButton
	Panes    []Pane
	ActiveID string
}

// Empty reports whether no tabs are open.
func (s Surface) Empty() bool {
	return len(s.Tabs) == 0
}

// Workspace is one mounted tab shell. Every operation holds the workspace
// lock for its whole duration, so operations never interleave.
type Workspace struct {
	mu sync.Mutex

	clientID   string
	bus        *messaging.Bus
	router     *HostRouter
	resolver   *usecase.ViewResolver
	snapshots  *usecase.TabSnapshotStore
	namespaces entity.Namespaces
	metrics    port.WorkspaceMetrics

	registry    *usecase.TabRegistry
	unsubscribe func()
	mounted     bool
}

// WorkspaceConfig holds the collaborators of a workspace.
type WorkspaceConfig struct {
	ClientID   string
	Store      port.KeyValueStore
	Key        string
	Resolver   *usecase.ViewResolver
	Namespaces entity.Namespaces
	Metrics    port.WorkspaceMetrics
}

// NewWorkspace creates an unmounted workspace.
func NewWorkspace(cfg WorkspaceConfig) *Workspace {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = port.NopMetrics{}
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = usecase.NewViewResolver(usecase.DefaultViewTable())
	}
	return &Workspace{
		clientID:   cfg.ClientID,
		bus:        messaging.NewBus(),
		router:     NewHostRouter(),
		resolver:   resolver,
		snapshots:  usecase.NewTabSnapshotStore(cfg.Store, cfg.Key, metrics),
		namespaces: cfg.Namespaces,
		metrics:    metrics,
	}
}

// Bus returns the workspace's open-tab signal bus.
func (w *Workspace) Bus() *messaging.Bus {
	return w.bus
}

// Router returns the workspace's host router.
func (w *Workspace) Router() *HostRouter {
	return w.router
}

// Mounted reports whether the workspace is mounted.
func (w *Workspace) Mounted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mounted
}

// Mount loads the persisted snapshot, restores it against the router's
// current location and starts listening for open-tab signals.
func (w *Workspace) Mount(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mountLocked(w.logContext(ctx))
}

// mountLocked expects ctx to carry the workspace log fields already.
func (w *Workspace) mountLocked(ctx context.Context) {
	if w.mounted {
		return
	}
	log := logging.FromContext(ctx)

	w.registry = usecase.NewTabRegistry(usecase.TabRegistryConfig{
		Snapshots:  w.snapshots,
		Location:   usecase.NewLocationSync(w.router),
		Namespaces: w.namespaces,
		Metrics:    w.metrics,
	})
	w.registry.Restore(ctx, w.snapshots.Load(ctx), w.router.CurrentLocation(ctx))
	w.unsubscribe = w.bus.Subscribe(w.onOpenTab)
	w.mounted = true

	log.Debug().Int("tab_count", len(w.registry.Tabs())).Msg("workspace mounted")
}

// Unmount detaches the signal listener and drops the in-memory tabs.
// The persisted snapshot is left as is.
func (w *Workspace) Unmount(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.mounted {
		return
	}
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
	w.registry.Discard()
	w.registry = nil
	w.mounted = false

	logging.FromContext(w.logContext(ctx)).Debug().Msg("workspace unmounted")
}

// Visit reports that the client is at location. The first visit mounts
// the workspace; later ones are location changes. Returns the location
// the client must move to instead, if any.
func (w *Workspace) Visit(ctx context.Context, location string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ctx = w.logContext(ctx)

	w.router.SetLocation(location)
	if !w.mounted {
		w.mountLocked(ctx)
	} else {
		w.registry.OnLocationChanged(ctx, location)
	}
	return w.takeNavigation(location)
}

// openReply carries the navigation of an Open call back from the bus
// handler, which runs it in the same workspace turn.
type openReply struct {
	href string
}

type openReplyKey struct{}

// Open publishes an open-tab signal on the workspace bus. Returns the
// navigation target the signal produced.
func (w *Workspace) Open(ctx context.Context, sig messaging.OpenTabSignal) (string, error) {
	ctx = w.logContext(ctx)
	w.mu.Lock()
	w.mountLocked(ctx)
	w.mu.Unlock()

	reply := &openReply{}
	if err := w.bus.Publish(context.WithValue(ctx, openReplyKey{}, reply), sig); err != nil {
		return "", err
	}
	return reply.href, nil
}

func (w *Workspace) onOpenTab(ctx context.Context, sig messaging.OpenTabSignal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mounted {
		return
	}
	w.registry.OpenOrActivate(ctx, sig.Href, sig.Title)
	if reply, ok := ctx.Value(openReplyKey{}).(*openReply); ok {
		reply.href, _ = w.router.TakeNavigation()
	}
}

// Activate switches to tabID. Returns the navigation target, if any.
func (w *Workspace) Activate(ctx context.Context, tabID string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ctx = w.logContext(ctx)

	w.mountLocked(ctx)
	w.registry.Activate(ctx, entity.TabID(tabID))
	href, _ := w.router.TakeNavigation()
	return href
}

// Close closes tabID. Returns the navigation target, if any.
func (w *Workspace) Close(ctx context.Context, tabID string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ctx = w.logContext(ctx)

	w.mountLocked(ctx)
	w.registry.Close(ctx, entity.TabID(tabID))
	href, _ := w.router.TakeNavigation()
	return href
}

// Snapshot returns a copy of the current tab set.
func (w *Workspace) Snapshot(ctx context.Context) *entity.TabSet {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.mountLocked(w.logContext(ctx))
	return w.registry.Snapshot()
}

// Render builds the tab strip and the content panes. Every open tab gets
// a pane; all but the active one are hidden.
func (w *Workspace) Render(ctx context.Context) Surface {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.mountLocked(w.logContext(ctx))
	active := string(w.registry.ActiveID())
	tabs := w.registry.Tabs()

	surface := Surface{
		Tabs:     make([]TabButton, 0, len(tabs)),
		Panes:    make([]Pane, 0, len(tabs)),
		ActiveID: active,
	}
	for _, tab := range tabs {
		isActive := string(tab.ID) == active
		surface.Tabs = append(surface.Tabs, TabButton{
			ID:     string(tab.ID),
			Title:  tab.Title,
			Href:   tab.Href,
			Active: isActive,
		})
		surface.Panes = append(surface.Panes, Pane{
			TabID:  string(tab.ID),
			View:   w.resolver.Resolve(tab.Href),
			Hidden: !isActive,
		})
	}
	return surface
}

// takeNavigation drops a pending navigation that points where the client
// already is.
func (w *Workspace) takeNavigation(location string) (string, bool) {
	href, ok := w.router.TakeNavigation()
	if !ok || href == location {
		return "", false
	}
	return href, true
}

func (w *Workspace) logContext(ctx context.Context) context.Context {
	ctx = logging.WithComponent(ctx, "workspace")
	if w.clientID != "" {
		ctx = logging.WithClientID(ctx, w.clientID)
	}
	return ctx
}
