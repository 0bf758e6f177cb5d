package usecase

import (
	"context"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/domain/entity"
	"github.com/bnema/careshell/internal/logging"
)

// Tab operation names reported to metrics.
const (
	OpRestore  = "restore"
	OpOpen     = "open"
	OpActivate = "activate"
	OpClose    = "close"
	OpLocation = "location"
)

// TabRegistry owns the ordered tab list and the active tab of one workspace.
// It is not safe for concurrent use; callers run each operation to completion
// before starting the next.
type TabRegistry struct {
	tabs       *entity.TabSet
	snapshots  *TabSnapshotStore
	location   *LocationSync
	namespaces entity.Namespaces
	metrics    port.WorkspaceMetrics

	// restored is set once Restore has run; touched once any other
	// operation has. Restore only applies while both are false.
	restored bool
	touched  bool
}

// TabRegistryConfig holds the registry's collaborators.
type TabRegistryConfig struct {
	Snapshots  *TabSnapshotStore
	Location   *LocationSync
	Namespaces entity.Namespaces
	Metrics    port.WorkspaceMetrics
}

// NewTabRegistry creates an empty registry.
func NewTabRegistry(cfg TabRegistryConfig) *TabRegistry {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = port.NopMetrics{}
	}
	namespaces := cfg.Namespaces
	if len(namespaces.Roots) == 0 && namespaces.Default == "" {
		namespaces = entity.NewNamespaces(nil, "")
	}
	return &TabRegistry{
		tabs:       entity.NewTabSet(),
		snapshots:  cfg.Snapshots,
		location:   cfg.Location,
		namespaces: namespaces,
		metrics:    metrics,
	}
}

// Snapshot returns a copy of the current tab set.
func (r *TabRegistry) Snapshot() *entity.TabSet {
	return r.tabs.Clone()
}

// Tabs returns a copy of the open tabs in order.
func (r *TabRegistry) Tabs() []entity.Tab {
	return r.tabs.Clone().Tabs
}

// ActiveID returns the active tab ID, or "" if none.
func (r *TabRegistry) ActiveID() entity.TabID {
	if r.tabs.ActiveID == nil {
		return ""
	}
	return *r.tabs.ActiveID
}

// Restored reports whether Restore has been applied or skipped.
func (r *TabRegistry) Restored() bool {
	return r.restored
}

// Restore primes the registry from a persisted snapshot. It only applies
// as the very first operation on the registry; later calls are ignored.
// Priority: the tab at currentLocation, then the remembered active tab,
// then the first tab. Restore does not save.
func (r *TabRegistry) Restore(ctx context.Context, snapshot *entity.TabSet, currentLocation string) bool {
	log := logging.FromContext(ctx)

	if r.restored || r.touched {
		log.Debug().
			Bool("restored", r.restored).
			Bool("touched", r.touched).
			Msg("skipping restore, registry already in use")
		return false
	}
	r.restored = true

	if snapshot.IsEmpty() {
		log.Debug().Msg("nothing to restore")
		return false
	}

	before := r.tabs.Count()
	restored := entity.NewTabSet()
	for _, tab := range snapshot.Tabs {
		restored.Append(entity.NewTab(tab.Href, tab.Title))
	}
	r.tabs = restored
	r.metrics.TabOperation(OpRestore)
	r.metrics.OpenTabsDelta(r.tabs.Count() - before)

	if tab, ok := r.tabs.FindByHref(currentLocation); ok {
		r.tabs.SetActive(tab.ID)
		log.Info().
			Str("active", string(tab.ID)).
			Int("tab_count", r.tabs.Count()).
			Msg("tabs restored at current location")
		return true
	}

	target, ok := entity.Tab{}, false
	if snapshot.ActiveID != nil {
		target, ok = r.tabs.Find(*snapshot.ActiveID)
	}
	if !ok {
		target, _ = r.tabs.First()
	}

	r.tabs.SetActive(target.ID)
	log.Info().
		Str("active", string(target.ID)).
		Int("tab_count", r.tabs.Count()).
		Msg("tabs restored")
	r.location.NavigateTo(ctx, target.Href)
	return true
}

// OpenOrActivate focuses the tab for href, creating it at the end of the
// list if needed. An existing tab keeps its original title. Blank hrefs
// are ignored.
func (r *TabRegistry) OpenOrActivate(ctx context.Context, href, title string) {
	if isBlank(href) {
		logging.FromContext(ctx).Warn().Str("title", title).Msg("open ignored, href is blank")
		return
	}
	r.touched = true
	ctx = logging.WithTabID(ctx, href)
	log := logging.FromContext(ctx)

	id := entity.TabID(href)
	if _, exists := r.tabs.Find(id); exists {
		log.Debug().Msg("tab already open, activating")
	} else {
		r.tabs.Append(entity.NewTab(href, title))
		r.metrics.OpenTabsDelta(1)
		log.Info().
			Str("title", title).
			Int("position", r.tabs.Count()-1).
			Msg("tab opened")
	}

	r.tabs.SetActive(id)
	r.metrics.TabOperation(OpOpen)
	r.location.NavigateTo(ctx, href)
	r.save(ctx)
}

// Activate makes tabID the active tab and navigates to it.
// Unknown IDs are ignored.
func (r *TabRegistry) Activate(ctx context.Context, tabID entity.TabID) bool {
	r.touched = true
	ctx = logging.WithTabID(ctx, string(tabID))
	log := logging.FromContext(ctx)

	tab, ok := r.tabs.Find(tabID)
	if !ok {
		log.Debug().Msg("activate ignored, tab not found")
		return false
	}

	wasActive := r.tabs.IsActive(tabID)
	r.tabs.SetActive(tabID)
	r.metrics.TabOperation(OpActivate)
	r.location.NavigateTo(ctx, tab.Href)
	if !wasActive {
		log.Debug().Msg("tab activated")
		r.save(ctx)
	}
	return true
}

// Close removes tabID. When the active tab closes, the last remaining tab
// becomes active; when none remain, the workspace navigates to the
// namespace base path of the current location. Unknown IDs are ignored.
func (r *TabRegistry) Close(ctx context.Context, tabID entity.TabID) bool {
	r.touched = true
	ctx = logging.WithTabID(ctx, string(tabID))
	log := logging.FromContext(ctx)

	wasActive := r.tabs.IsActive(tabID)
	if !r.tabs.Remove(tabID) {
		log.Debug().Msg("close ignored, tab not found")
		return false
	}
	r.metrics.TabOperation(OpClose)
	r.metrics.OpenTabsDelta(-1)

	switch {
	case !wasActive:
		log.Info().Int("remaining", r.tabs.Count()).Msg("tab closed")
	case !r.tabs.IsEmpty():
		last, _ := r.tabs.Last()
		r.tabs.SetActive(last.ID)
		log.Info().
			Str("new_active", string(last.ID)).
			Int("remaining", r.tabs.Count()).
			Msg("active tab closed")
		r.location.NavigateTo(ctx, last.Href)
	default:
		r.tabs.ClearActive()
		base := r.namespaces.BasePath(r.location.CurrentLocation(ctx))
		log.Info().Str("base_path", base).Msg("last tab closed")
		r.location.NavigateTo(ctx, base)
	}

	r.save(ctx)
	return true
}

// OnLocationChanged activates the tab matching location without navigating,
// since the host has already moved there.
func (r *TabRegistry) OnLocationChanged(ctx context.Context, location string) bool {
	r.touched = true

	tab, ok := r.tabs.FindByHref(location)
	if !ok || r.tabs.IsActive(tab.ID) {
		return false
	}

	r.tabs.SetActive(tab.ID)
	r.metrics.TabOperation(OpLocation)
	logging.FromContext(ctx).Debug().
		Str("tab_id", string(tab.ID)).
		Msg("tab activated from location change")
	r.save(ctx)
	return true
}

// Discard drops every tab without navigating or saving.
// Used when the workspace is torn down.
func (r *TabRegistry) Discard() {
	r.metrics.OpenTabsDelta(-r.tabs.Count())
	r.tabs = entity.NewTabSet()
}

func (r *TabRegistry) save(ctx context.Context) {
	if r.snapshots == nil {
		return
	}
	r.snapshots.Save(ctx, r.tabs)
}
