package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/domain/entity"
	"github.com/bnema/careshell/internal/logging"
)

// ErrWorkspaceNotFound is returned when no snapshot is stored for a client.
var ErrWorkspaceNotFound = errors.New("no stored workspace for client")

// StoredWorkspace is one client's persisted snapshot.
// Tabs is nil when the stored value could not be decoded.
type StoredWorkspace struct {
	ClientID string
	Key      string
	Tabs     *entity.TabSet
}

// Readable reports whether the snapshot decoded.
func (w StoredWorkspace) Readable() bool {
	return w.Tabs != nil
}

// StoredWorkspacesUseCase inspects and clears persisted snapshots
// outside of a running server.
type StoredWorkspacesUseCase struct {
	store  port.KeyValueStore
	prefix string
}

// NewStoredWorkspacesUseCase creates the use case for keys under prefix.
func NewStoredWorkspacesUseCase(store port.KeyValueStore, prefix string) *StoredWorkspacesUseCase {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &StoredWorkspacesUseCase{store: store, prefix: prefix}
}

// List returns every stored workspace ordered by client ID.
func (uc *StoredWorkspacesUseCase) List(ctx context.Context) ([]StoredWorkspace, error) {
	log := logging.FromContext(ctx)

	keys, err := uc.store.Keys(ctx, uc.prefix+":")
	if err != nil {
		return nil, fmt.Errorf("list snapshot keys: %w", err)
	}

	workspaces := make([]StoredWorkspace, 0, len(keys))
	for _, key := range keys {
		clientID, ok := ClientFromKey(uc.prefix, key)
		if !ok || clientID == "" {
			continue
		}
		ws, err := uc.load(ctx, clientID)
		if errors.Is(err, ErrWorkspaceNotFound) {
			// Deleted between Keys and Get.
			continue
		}
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, *ws)
	}

	log.Debug().Int("count", len(workspaces)).Msg("stored workspaces listed")
	return workspaces, nil
}

// Get returns clientID's stored workspace.
func (uc *StoredWorkspacesUseCase) Get(ctx context.Context, clientID string) (*StoredWorkspace, error) {
	return uc.load(ctx, clientID)
}

// Clear deletes clientID's snapshot. A running server only notices on the
// client's next restore.
func (uc *StoredWorkspacesUseCase) Clear(ctx context.Context, clientID string) error {
	key := SnapshotKey(uc.prefix, clientID)
	if _, found, err := uc.store.Get(ctx, key); err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	} else if !found {
		return ErrWorkspaceNotFound
	}
	if err := uc.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	logging.FromContext(ctx).Info().Str("client_id", clientID).Msg("stored workspace cleared")
	return nil
}

func (uc *StoredWorkspacesUseCase) load(ctx context.Context, clientID string) (*StoredWorkspace, error) {
	key := SnapshotKey(uc.prefix, clientID)
	raw, found, err := uc.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if !found {
		return nil, ErrWorkspaceNotFound
	}

	ws := &StoredWorkspace{ClientID: clientID, Key: key}
	tabs, err := DecodeSnapshot(raw)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("stored snapshot is unreadable")
		return ws, nil
	}
	ws.Tabs = tabs
	return ws, nil
}
