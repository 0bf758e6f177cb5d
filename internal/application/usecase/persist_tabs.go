package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/domain/entity"
	"github.com/bnema/careshell/internal/logging"
)

// DefaultSnapshotKey is the storage key for a workspace without a client scope.
const DefaultSnapshotKey = "careshell.workspace.tabs"

// DefaultKeyPrefix prefixes the snapshot key of every client.
const DefaultKeyPrefix = "careshell.tabs"

// SnapshotKey returns the storage key of clientID's snapshot.
func SnapshotKey(prefix, clientID string) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + ":" + clientID
}

// ClientFromKey extracts the client ID from a snapshot key.
func ClientFromKey(prefix, key string) (string, bool) {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return strings.CutPrefix(key, prefix+":")
}

// Snapshot failure kinds reported to metrics.
const (
	FailureRead   = "read"
	FailureDecode = "decode"
	FailureWrite  = "write"
	FailureDelete = "delete"
)

// TabSnapshotStore persists the {tabs, activeId} snapshot under one key.
// Persistence is best-effort: failures are logged and never returned.
type TabSnapshotStore struct {
	store   port.KeyValueStore
	key     string
	metrics port.WorkspaceMetrics
}

// NewTabSnapshotStore creates a snapshot store bound to key.
func NewTabSnapshotStore(store port.KeyValueStore, key string, metrics port.WorkspaceMetrics) *TabSnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	if metrics == nil {
		metrics = port.NopMetrics{}
	}
	return &TabSnapshotStore{
		store:   store,
		key:     key,
		metrics: metrics,
	}
}

// Key returns the storage key.
func (s *TabSnapshotStore) Key() string {
	return s.key
}

// snapshotWire tolerates missing or extra fields in stored snapshots.
type snapshotWire struct {
	Tabs []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Href  string `json:"href"`
	} `json:"tabs"`
	ActiveID *string `json:"activeId"`
}

// Load reads the snapshot. Returns nil when the key is absent, the
// value cannot be parsed, or the store fails.
func (s *TabSnapshotStore) Load(ctx context.Context) *entity.TabSet {
	log := logging.FromContext(ctx)

	raw, found, err := s.store.Get(ctx, s.key)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("failed to read tab snapshot")
		s.metrics.SnapshotFailure(FailureRead)
		return nil
	}
	if !found {
		log.Debug().Str("key", s.key).Msg("no tab snapshot stored")
		return nil
	}

	tabs, err := DecodeSnapshot(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("discarding unreadable tab snapshot")
		s.metrics.SnapshotFailure(FailureDecode)
		return nil
	}
	if tabs.IsEmpty() {
		log.Debug().Str("key", s.key).Msg("tab snapshot holds no usable tabs")
		return nil
	}

	log.Debug().
		Str("key", s.key).
		Int("tab_count", tabs.Count()).
		Msg("tab snapshot loaded")

	return tabs
}

// Save writes the snapshot when tabs is non-empty and deletes the key otherwise.
func (s *TabSnapshotStore) Save(ctx context.Context, tabs *entity.TabSet) {
	log := logging.FromContext(ctx)

	if tabs.IsEmpty() {
		if err := s.store.Delete(ctx, s.key); err != nil {
			log.Error().Err(err).Str("key", s.key).Msg("failed to clear tab snapshot")
			s.metrics.SnapshotFailure(FailureDelete)
			return
		}
		log.Debug().Str("key", s.key).Msg("tab snapshot cleared")
		return
	}

	data, err := json.Marshal(tabs)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal tab snapshot")
		s.metrics.SnapshotFailure(FailureWrite)
		return
	}

	if err := s.store.Set(ctx, s.key, string(data)); err != nil {
		log.Error().Err(err).Str("key", s.key).Msg("failed to write tab snapshot")
		s.metrics.SnapshotFailure(FailureWrite)
		return
	}

	log.Debug().
		Str("key", s.key).
		Int("tab_count", tabs.Count()).
		Msg("tab snapshot saved")
}

// DecodeSnapshot parses a stored snapshot. The id is always rebuilt from
// href (falling back to the stored id when href is blank), tabs with
// neither are dropped, and repeated hrefs keep their first occurrence.
// Hrefs are kept byte for byte so they still match the stored active id,
// which is returned as stored.
func DecodeSnapshot(raw string) (*entity.TabSet, error) {
	var wire snapshotWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, err
	}

	tabs := entity.NewTabSet()
	for _, t := range wire.Tabs {
		href := t.Href
		if isBlank(href) {
			href = t.ID
		}
		if isBlank(href) {
			continue
		}
		tabs.Append(entity.NewTab(href, t.Title))
	}
	if wire.ActiveID != nil {
		tabs.SetActive(entity.TabID(*wire.ActiveID))
	}
	return tabs, nil
}

func isBlank(href string) bool {
	return strings.TrimSpace(href) == ""
}
