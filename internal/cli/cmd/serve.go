package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/careshell/internal/cli"
	"github.com/bnema/careshell/internal/domain/entity"
	"github.com/bnema/careshell/internal/infrastructure/config"
	"github.com/bnema/careshell/internal/infrastructure/metrics"
	"github.com/bnema/careshell/internal/infrastructure/web"
	"github.com/bnema/careshell/internal/logging"
	"github.com/bnema/careshell/internal/ui/shell"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the workspace HTTP server",
	Long: `Run the workspace HTTP server.

The shell is served under /shell/, the JSON API under /api/tabs and
Prometheus metrics under /metrics. The config file is watched and log
level changes apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = applyLogLevel(ctx, app.Config.Logging.Level)
	if app.ConfigMgr != nil {
		app.ConfigMgr.OnConfigChange(func(cfg *config.Config) {
			zerolog.SetGlobalLevel(logging.ParseLevel(cfg.Logging.Level))
			logging.FromContext(ctx).Info().Str("level", cfg.Logging.Level).Msg("config reloaded")
		})
		if err := app.ConfigMgr.Watch(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("config watch unavailable")
		}
	}

	srv, err := newServer(ctx, app)
	if err != nil {
		return err
	}
	return serve(ctx, srv)
}

// applyLogLevel lets the global level decide what is logged, so reloads
// can lower or raise it.
func applyLogLevel(ctx context.Context, level string) context.Context {
	logger := logging.FromContext(ctx).Level(zerolog.TraceLevel)
	zerolog.SetGlobalLevel(logging.ParseLevel(level))
	return logging.WithContext(ctx, logger)
}

func newServer(ctx context.Context, app *cli.App) (*web.Server, error) {
	cfg := app.Config
	m := metrics.New()

	manager := shell.NewManager(shell.ManagerConfig{
		Store:       app.Store,
		KeyPrefix:   cfg.Storage.KeyPrefix,
		Resolver:    app.Views,
		Namespaces:  entity.NewNamespaces(cfg.Workspace.Namespaces, cfg.Workspace.DefaultBasePath),
		Metrics:     m,
		IdleTimeout: cfg.Workspace.IdleTimeout,
	})

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	return web.NewServer(ctx, web.Config{
		Addr:            addr,
		CookieName:      cfg.Server.CookieName,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, manager, m)
}

// serve runs srv and its idle workspace evictor until ctx is cancelled
// or the listener fails.
func serve(ctx context.Context, srv *web.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		return srv.Manager().RunEvictor(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.WithoutCancel(ctx))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Msg("careshell stopped")
	return nil
}
