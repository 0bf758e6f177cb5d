package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/bnema/careshell/internal/logging"
)

// DBProvider hands out the database connection.
type DBProvider interface {
	DB(ctx context.Context) (*sql.DB, error)
}

// LazyDB opens the database on first use, so commands that never touch
// storage skip the WASM compilation and migration cost.
type LazyDB struct {
	dbPath string
	db     *sql.DB
	err    error
	once   sync.Once
	mu     sync.RWMutex
}

var _ DBProvider = (*LazyDB)(nil)

// NewLazyDB creates a provider for dbPath without opening it.
func NewLazyDB(dbPath string) *LazyDB {
	return &LazyDB{dbPath: dbPath}
}

// DB returns the connection, opening it on the first call.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.once.Do(func() {
		log := logging.FromContext(ctx)
		log.Debug().Str("path", l.dbPath).Msg("opening database")

		db, err := NewConnection(ctx, l.dbPath)
		l.mu.Lock()
		l.db, l.err = db, err
		l.mu.Unlock()
		if err != nil {
			log.Error().Err(err).Msg("database initialization failed")
		}
	})

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", l.err)
	}
	return l.db, nil
}

// Close closes the connection if it was opened.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// IsInitialized reports whether the connection has been opened.
func (l *LazyDB) IsInitialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

// Path returns the database path.
func (l *LazyDB) Path() string {
	return l.dbPath
}
