// Package app provides the dependency injection container that assembles the
// application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	abuseService "github.com/allisson/nexusdb/internal/abuse/service"
	authHTTP "github.com/allisson/nexusdb/internal/auth/http"
	authService "github.com/allisson/nexusdb/internal/auth/service"
	authUseCase "github.com/allisson/nexusdb/internal/auth/usecase"
	banHTTP "github.com/allisson/nexusdb/internal/ban/http"
	banUseCase "github.com/allisson/nexusdb/internal/ban/usecase"
	challengeHTTP "github.com/allisson/nexusdb/internal/challenge/http"
	challengeUseCase "github.com/allisson/nexusdb/internal/challenge/usecase"
	"github.com/allisson/nexusdb/internal/config"
	connectionHTTP "github.com/allisson/nexusdb/internal/connection/http"
	connectionUseCase "github.com/allisson/nexusdb/internal/connection/usecase"
	cryptoService "github.com/allisson/nexusdb/internal/crypto/service"
	"github.com/allisson/nexusdb/internal/database"
	"github.com/allisson/nexusdb/internal/http"
	"github.com/allisson/nexusdb/internal/metrics"
	scriptHTTP "github.com/allisson/nexusdb/internal/script/http"
	scriptUseCase "github.com/allisson/nexusdb/internal/script/usecase"
	"github.com/allisson/nexusdb/internal/validation"
)

// Container holds all application dependencies. Components are created on first
// access and cached; initialization errors are cached too.
type Container struct {
	// Configuration
	config  *config.Config
	version string

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	redisClient     *redis.Client
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Crypto
	aeadManager      cryptoService.AEADManager
	kmsService       cryptoService.KMSService
	credentialCipher cryptoService.CredentialCipher

	// Auth
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	userRepository  authUseCase.UserRepository
	authUseCase     authUseCase.AuthUseCase
	authHandler     *authHTTP.AuthHandler
	authenticator   *authHTTP.Authenticator

	// Abuse protection
	banRepository    banUseCase.BanRepository
	banUseCase       banUseCase.BanUseCase
	banGate          *banHTTP.BanGate
	bruteForceGuard  *abuseService.BruteForceGuard
	challengeStore   challengeUseCase.ChallengeStore
	challengeUseCase challengeUseCase.ChallengeUseCase
	challengeHandler *challengeHTTP.ChallengeHandler
	rateLimiter      *http.IPRateLimiter

	// Connections
	queryGuard           *validation.QueryGuard
	connectionRepository connectionUseCase.ConnectionRepository
	connectionUseCase    connectionUseCase.ConnectionUseCase
	connectionHandler    *connectionHTTP.ConnectionHandler

	// Scripts
	scriptRepository scriptUseCase.ScriptRepository
	scriptUseCase    scriptUseCase.ScriptUseCase
	scriptHandler    *scriptHTTP.ScriptHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                       sync.Mutex
	loggerInit               sync.Once
	dbInit                   sync.Once
	redisClientInit          sync.Once
	metricsProviderInit      sync.Once
	businessMetricsInit      sync.Once
	txManagerInit            sync.Once
	aeadManagerInit          sync.Once
	kmsServiceInit           sync.Once
	credentialCipherInit     sync.Once
	passwordServiceInit      sync.Once
	tokenServiceInit         sync.Once
	userRepositoryInit       sync.Once
	authUseCaseInit          sync.Once
	authHandlerInit          sync.Once
	authenticatorInit        sync.Once
	banRepositoryInit        sync.Once
	banUseCaseInit           sync.Once
	banGateInit              sync.Once
	bruteForceGuardInit      sync.Once
	challengeStoreInit       sync.Once
	challengeUseCaseInit     sync.Once
	challengeHandlerInit     sync.Once
	rateLimiterInit          sync.Once
	queryGuardInit           sync.Once
	connectionRepositoryInit sync.Once
	connectionUseCaseInit    sync.Once
	connectionHandlerInit    sync.Once
	scriptRepositoryInit     sync.Once
	scriptUseCaseInit        sync.Once
	scriptHandlerInit        sync.Once
	httpServerInit           sync.Once
	metricsServerInit        sync.Once
	initErrors               map[string]error
	workersStarted           bool
	closed                   bool
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		version:    "dev",
		initErrors: make(map[string]error),
	}
}

// SetVersion sets the version reported by /health. Call it before HTTPServer.
func (c *Container) SetVersion(version string) {
	if version != "" {
		c.version = version
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger configured at the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// RedisClient returns the Redis client used by the redis challenge store.
func (c *Container) RedisClient() (*redis.Client, error) {
	var err error
	c.redisClientInit.Do(func() {
		c.redisClient, err = c.initRedisClient()
		if err != nil {
			c.initErrors["redisClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["redisClient"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op recorder when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// RateLimiter returns the per-IP limiter, or nil when rate limiting is disabled.
func (c *Container) RateLimiter() *http.IPRateLimiter {
	c.rateLimiterInit.Do(func() {
		if !c.config.RateLimitEnabled {
			return
		}
		c.rateLimiter = http.NewIPRateLimiter(
			c.config.RateLimitRequestsPerSec,
			c.config.RateLimitBurst,
			c.Logger(),
			nil,
		)
	})
	return c.rateLimiter
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// StartWorkers launches the background sweepers of the brute force guard and the
// rate limiter. They stop when ctx is cancelled or on Shutdown.
func (c *Container) StartWorkers(ctx context.Context) error {
	guard, err := c.BruteForceGuard()
	if err != nil {
		return err
	}
	limiter := c.RateLimiter()

	c.mu.Lock()
	defer c.mu.Unlock()

	guard.Start(ctx)
	if limiter != nil {
		limiter.Start(ctx)
	}
	c.workersStarted = true
	return nil
}

// Shutdown stops background workers and releases every initialized resource. Calls
// after the first are no-ops.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var shutdownErrors []error

	if c.workersStarted {
		if c.bruteForceGuard != nil {
			c.bruteForceGuard.Stop()
		}
		if c.rateLimiter != nil {
			c.rateLimiter.Stop()
		}
		c.workersStarted = false
	}

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initRedisClient parses REDIS_URL and creates the client.
func (c *Container) initRedisClient() (*redis.Client, error) {
	opts, err := redis.ParseURL(c.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// initMetricsProvider creates the Prometheus-backed provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server and mounts every route.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authHandler, err := c.AuthHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth handler for http server: %w", err)
	}
	authenticator, err := c.Authenticator()
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticator for http server: %w", err)
	}
	connectionHandler, err := c.ConnectionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection handler for http server: %w", err)
	}
	scriptHandler, err := c.ScriptHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get script handler for http server: %w", err)
	}
	challengeHandler, err := c.ChallengeHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge handler for http server: %w", err)
	}
	banGate, err := c.BanGate()
	if err != nil {
		return nil, fmt.Errorf("failed to get ban gate for http server: %w", err)
	}
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(c.config, http.Routes{
		Version:         c.version,
		Auth:            authHandler,
		Authenticator:   authenticator,
		Connection:      connectionHandler,
		Script:          scriptHandler,
		Challenge:       challengeHandler,
		BanGate:         banGate,
		RateLimiter:     c.RateLimiter(),
		MetricsProvider: metricsProvider,
	})

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
