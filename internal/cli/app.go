// Package cli wires careshell dependencies for the command-line entry points.
package cli

import (
	"context"
	"fmt"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/application/usecase"
	"github.com/bnema/careshell/internal/cli/styles"
	"github.com/bnema/careshell/internal/domain/build"
	"github.com/bnema/careshell/internal/infrastructure/config"
	"github.com/bnema/careshell/internal/infrastructure/persistence"
	"github.com/bnema/careshell/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	ConfigMgr *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	Store     port.KeyValueStore

	StoredWorkspacesUC *usecase.StoredWorkspacesUseCase
	Views              *usecase.ViewResolver

	ctx        context.Context
	closeStore func() error
	logCleanup func()
}

// NewApp loads configFile (empty for the XDG default), builds the logger
// and opens the configured store.
func NewApp(configFile string) (*App, error) {
	mgr, err := config.NewManager(configFile)
	if err != nil {
		return nil, fmt.Errorf("config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Format = cfg.Logging.Format
	file := cfg.Logging.File
	logger, logCleanup, err := logging.NewWithFile(logCfg, logging.FileConfig{
		Enabled:       file.Enabled,
		Dir:           file.Dir,
		MaxSizeMB:     file.MaxSizeMB,
		MaxBackups:    file.MaxBackups,
		MaxAgeDays:    file.MaxAgeDays,
		Compress:      file.Compress,
		WriteToStderr: true,
	})
	if err != nil {
		logger.Warn().Err(err).Str("dir", file.Dir).Msg("file logging disabled")
	}
	ctx := logging.WithContext(context.Background(), logger)

	store, closeStore, err := persistence.Open(ctx, cfg.Storage)
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	app := New(ctx, cfg, store)
	app.ConfigMgr = mgr
	app.closeStore = closeStore
	app.logCleanup = logCleanup

	logger.Debug().
		Str("config", mgr.ConfigFile()).
		Str("backend", string(cfg.Storage.Backend)).
		Msg("cli initialized")
	return app, nil
}

// New assembles an App from already opened parts.
func New(ctx context.Context, cfg *config.Config, store port.KeyValueStore) *App {
	return &App{
		Config:             cfg,
		Theme:              styles.NewTheme(),
		Store:              store,
		StoredWorkspacesUC: usecase.NewStoredWorkspacesUseCase(store, cfg.Storage.KeyPrefix),
		Views:              usecase.NewViewResolver(usecase.DefaultViewTable()),
		ctx:                ctx,
	}
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var err error
	if a.closeStore != nil {
		err = a.closeStore()
	}
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
