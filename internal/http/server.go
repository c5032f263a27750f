// Package http wires the gin router: global middleware, health endpoints and the
// versioned API routes for challenges, accounts, connections and scripts.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/nexusdb/internal/auth/http"
	banHTTP "github.com/allisson/nexusdb/internal/ban/http"
	challengeHTTP "github.com/allisson/nexusdb/internal/challenge/http"
	"github.com/allisson/nexusdb/internal/config"
	connectionHTTP "github.com/allisson/nexusdb/internal/connection/http"
	"github.com/allisson/nexusdb/internal/metrics"
	scriptHTTP "github.com/allisson/nexusdb/internal/script/http"
)

// Server represents the API HTTP server.
type Server struct {
	db      *sql.DB
	server  *http.Server
	router  *gin.Engine
	logger  *slog.Logger
	version string
}

// Routes bundles the handlers mounted by SetupRouter.
// A nil RateLimiter or MetricsProvider disables that middleware.
type Routes struct {
	Version         string
	Auth            *authHTTP.AuthHandler
	Authenticator   *authHTTP.Authenticator
	Connection      *connectionHTTP.ConnectionHandler
	Script          *scriptHTTP.ScriptHandler
	Challenge       *challengeHTTP.ChallengeHandler
	BanGate         *banHTTP.BanGate
	RateLimiter     *IPRateLimiter
	MetricsProvider *metrics.Provider
}

// NewServer creates a new HTTP server. SetupRouter must run before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine. Middleware order: recovery, request id, security
// headers, request logging, metrics, CORS, the per-IP limiter, then the IP ban gate,
// so that every route, health checks included, is rate limited and ban checked.
//
// The client IP is the peer address unless the peer is one of cfg's trusted proxies;
// only then is X-Forwarded-For honored.
func (s *Server) SetupRouter(cfg *config.Config, routes Routes) {
	s.version = routes.Version

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		s.logger.Error("invalid trusted proxies, using peer address as client ip", slog.Any("error", err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(SecurityHeadersMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	if routes.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(routes.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if routes.RateLimiter != nil {
		router.Use(routes.RateLimiter.Middleware())
	}
	router.Use(routes.BanGate.IPGate())

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	v1.POST("/challenges", routes.Challenge.IssueHandler)

	auth := v1.Group("/auth")
	{
		credentials := auth.Group("")
		if cfg.PoWEnabled {
			credentials.Use(routes.Challenge.RequireProofOfWork())
		}
		credentials.POST("/register", routes.Auth.RegisterHandler)
		credentials.POST("/login", routes.Auth.LoginHandler)

		auth.GET("/me", routes.Authenticator.Require(routes.Auth.MeHandler))
	}

	protect := routes.Authenticator.Require

	connections := v1.Group("/connections")
	{
		connections.GET("", protect(routes.Connection.ListHandler))
		connections.POST("", protect(routes.Connection.CreateHandler))
		connections.GET("/:id", protect(routes.Connection.GetHandler))
		connections.PUT("/:id", protect(routes.Connection.UpdateHandler))
		connections.DELETE("/:id", protect(routes.Connection.DeleteHandler))
		connections.POST("/:id/execute", protect(routes.Connection.ExecuteHandler))
	}

	scripts := v1.Group("/scripts")
	{
		scripts.GET("", protect(routes.Script.ListHandler))
		scripts.POST("", protect(routes.Script.CreateHandler))
		scripts.DELETE("/:id", protect(routes.Script.DeleteHandler))
	}

	s.router = router
}

// Handler returns the configured router, or nil before SetupRouter.
func (s *Server) Handler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": version})
}

// readinessHandler pings the database with a short timeout.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
