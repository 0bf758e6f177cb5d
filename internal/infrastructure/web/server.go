// Package web serves the tab workspace over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/bnema/careshell/internal/infrastructure/metrics"
	"github.com/bnema/careshell/internal/logging"
	"github.com/bnema/careshell/internal/ui/shell"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	readHeaderTimeout = 5 * time.Second
	shellPrefix       = "/shell"
)

// Config configures the HTTP server.
type Config struct {
	Addr            string
	CookieName      string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Server exposes the workspaces of a shell.Manager.
type Server struct {
	cfg       Config
	engine    *gin.Engine
	http      *http.Server
	manager   *shell.Manager
	metrics   *metrics.Metrics
	sanitizer *bluemonday.Policy
}

// NewServer builds the router. metrics may be nil.
func NewServer(ctx context.Context, cfg Config, manager *shell.Manager, m *metrics.Metrics) (*Server, error) {
	if cfg.CookieName == "" {
		return nil, fmt.Errorf("cookie name cannot be empty")
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(*logging.FromContext(ctx)))
	if m != nil {
		engine.Use(m.Middleware())
	}
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		manager:   manager,
		metrics:   m,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.routes()

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	client := s.engine.Group("/", ClientID(s.cfg.CookieName))
	client.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, shellPrefix+"/")
	})
	client.GET(shellPrefix+"/*path", s.handleShell)

	actions := client.Group("/shell-actions")
	actions.POST("/open", s.handleOpenForm)
	actions.POST("/activate", s.handleActivateForm)
	actions.POST("/close", s.handleCloseForm)

	api := s.engine.Group("/api")
	if h := CORS(s.cfg.AllowedOrigins); h != nil {
		api.Use(h)
		// Preflight requests never carry the cookie.
		api.OPTIONS("/*any", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
	tabs := api.Group("/tabs", ClientID(s.cfg.CookieName))
	tabs.GET("", s.handleListTabs)
	tabs.POST("/open", s.handleOpenAPI)
	tabs.POST("/activate", s.handleActivateAPI)
	tabs.POST("/close", s.handleCloseAPI)
}

// Manager returns the workspaces the server routes to.
func (s *Server) Manager() *shell.Manager {
	return s.manager
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	logging.FromContext(ctx).Info().Str("addr", s.cfg.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and unmounts every workspace.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	err := s.http.Shutdown(ctx)
	s.manager.Close(ctx)
	logging.FromContext(ctx).Info().Msg("http server stopped")
	return err
}
