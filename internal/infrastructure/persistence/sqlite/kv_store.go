package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/logging"
)

// KVStore is a port.KeyValueStore backed by the kv_store table.
type KVStore struct {
	provider DBProvider
}

var _ port.KeyValueStore = (*KVStore)(nil)

// NewKVStore creates a store reading its connection from provider.
func NewKVStore(provider DBProvider) *KVStore {
	return &KVStore{provider: provider}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return "", false, err
	}

	var value string
	err = db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug().Str("key", key).Int("bytes", len(value)).Msg("writing key")

	_, err = db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT key FROM kv_store ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, rows.Err()
}
