package shell

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/application/usecase"
	"github.com/bnema/careshell/internal/domain/entity"
	"github.com/bnema/careshell/internal/logging"
)

const minSweepInterval = time.Second

// Manager keeps one workspace per client and unmounts the ones left idle.
type Manager struct {
	mu         sync.Mutex
	workspaces map[string]*managedWorkspace

	store       port.KeyValueStore
	keyPrefix   string
	resolver    *usecase.ViewResolver
	namespaces  entity.Namespaces
	metrics     port.WorkspaceMetrics
	idleTimeout time.Duration
}

type managedWorkspace struct {
	ws       *Workspace
	lastUsed time.Time
}

// ManagerConfig holds the settings shared by all workspaces.
type ManagerConfig struct {
	Store      port.KeyValueStore
	KeyPrefix  string
	Resolver   *usecase.ViewResolver
	Namespaces entity.Namespaces
	Metrics    port.WorkspaceMetrics
	// IdleTimeout is how long a workspace may go unused before it is
	// evicted. Zero disables eviction.
	IdleTimeout time.Duration
}

// NewManager creates a manager with no workspaces.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		workspaces:  make(map[string]*managedWorkspace),
		store:       cfg.Store,
		keyPrefix:   cfg.KeyPrefix,
		resolver:    cfg.Resolver,
		namespaces:  cfg.Namespaces,
		metrics:     cfg.Metrics,
		idleTimeout: cfg.IdleTimeout,
	}
}

// Workspace returns clientID's workspace, creating it unmounted if needed,
// and marks it used.
func (m *Manager) Workspace(clientID string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if entry, ok := m.workspaces[clientID]; ok {
		entry.lastUsed = now
		return entry.ws
	}
	ws := NewWorkspace(WorkspaceConfig{
		ClientID:   clientID,
		Store:      m.store,
		Key:        usecase.SnapshotKey(m.keyPrefix, clientID),
		Resolver:   m.resolver,
		Namespaces: m.namespaces,
		Metrics:    m.metrics,
	})
	m.workspaces[clientID] = &managedWorkspace{ws: ws, lastUsed: now}
	return ws
}

// Clients lists the client IDs with a live workspace.
func (m *Manager) Clients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.workspaces))
	for id := range m.workspaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Forget unmounts and drops clientID's workspace.
func (m *Manager) Forget(ctx context.Context, clientID string) {
	m.mu.Lock()
	entry, ok := m.workspaces[clientID]
	delete(m.workspaces, clientID)
	m.mu.Unlock()

	if ok {
		entry.ws.Unmount(ctx)
	}
}

// EvictIdle unmounts and drops every workspace unused since now minus the
// idle timeout. Snapshots stay in storage, so an evicted client gets its
// tabs back on its next visit. Returns the number evicted.
func (m *Manager) EvictIdle(ctx context.Context, now time.Time) int {
	if m.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-m.idleTimeout)

	m.mu.Lock()
	var idle []*Workspace
	for id, entry := range m.workspaces {
		if entry.lastUsed.Before(cutoff) {
			idle = append(idle, entry.ws)
			delete(m.workspaces, id)
		}
	}
	remaining := len(m.workspaces)
	m.mu.Unlock()

	for _, ws := range idle {
		ws.Unmount(ctx)
	}
	if len(idle) > 0 {
		logging.FromContext(ctx).Debug().
			Int("evicted", len(idle)).
			Int("remaining", remaining).
			Msg("idle workspaces evicted")
	}
	return len(idle)
}

// RunEvictor evicts idle workspaces periodically until ctx is done.
// Returns immediately when eviction is disabled.
func (m *Manager) RunEvictor(ctx context.Context) error {
	if m.idleTimeout <= 0 {
		return nil
	}
	interval := m.idleTimeout / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.FromContext(ctx).Debug().
		Dur("idle_timeout", m.idleTimeout).
		Dur("interval", interval).
		Msg("workspace evictor started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			m.EvictIdle(ctx, now)
		}
	}
}

// Close unmounts every workspace.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	workspaces := m.workspaces
	m.workspaces = make(map[string]*managedWorkspace)
	m.mu.Unlock()

	for _, entry := range workspaces {
		entry.ws.Unmount(ctx)
	}
	logging.FromContext(ctx).Debug().Int("count", len(workspaces)).Msg("workspaces unmounted")
}
