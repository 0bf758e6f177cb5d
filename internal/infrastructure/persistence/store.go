// Package persistence opens the configured key-value backend.
package persistence

import (
	"context"
	"fmt"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/infrastructure/config"
	"github.com/bnema/careshell/internal/infrastructure/persistence/file"
	"github.com/bnema/careshell/internal/infrastructure/persistence/memory"
	"github.com/bnema/careshell/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/careshell/internal/logging"
)

// Open returns the store selected by cfg and a func releasing it.
// The sqlite database is opened on first use.
func Open(ctx context.Context, cfg config.StorageConfig) (port.KeyValueStore, func() error, error) {
	log := logging.FromContext(ctx)
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.StorageSQLite:
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("sqlite storage requires a path")
		}
		db := sqlite.NewLazyDB(cfg.Path)
		log.Debug().Str("path", cfg.Path).Msg("using sqlite snapshot store")
		return sqlite.NewKVStore(db), db.Close, nil
	case config.StorageFile:
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("file storage requires a path")
		}
		log.Debug().Str("path", cfg.Path).Msg("using file snapshot store")
		return file.NewStore(cfg.Path), noop, nil
	case config.StorageMemory:
		log.Debug().Msg("using in-memory snapshot store")
		return memory.NewStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
