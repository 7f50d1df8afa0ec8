package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/allertrack/backend/config"
	"github.com/pageza/allertrack/backend/internal/api"
	"github.com/pageza/allertrack/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

// New builds the gin engine with the shared middleware and all API routes
func New(cfg *config.Config, deps api.Dependencies) *Server {
	if config.GetEnvironment() != config.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(cfg.CORSOrigins),
	)
	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		logger: deps.Logger,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			// Uploads and oracle calls need room beyond the oracle timeout.
			WriteTimeout: cfg.OracleTimeout + 30*time.Second,
			IdleTimeout:  2 * time.Minute,
		},
	}
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.http.Shutdown(ctx)
}
