// Package config provides application configuration through environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

const (
	// DevJWTSecret is used when JWT_SECRET is unset. Never use it outside development.
	DevJWTSecret = "nexusdb-development-secret-change-me"
	// DevEncryptionKey is used when ENCRYPTION_KEY is unset. Never use it outside development.
	DevEncryptionKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	minJWTSecretLength = 32
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// DBDriver is the database driver to use ("postgres", "mysql" or "sqlite").
	DBDriver string
	// DBConnectionString is the connection string for the database.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// JWTSecret is the HMAC secret used to sign session tokens.
	JWTSecret string
	// JWTExpiration is the lifetime of an issued session token.
	JWTExpiration time.Duration

	// EncryptionKey is the credential encryption key: 64 hex characters, or a base64
	// KMS ciphertext when KMSKeyURI is set.
	EncryptionKey string
	// EncryptionAlgorithm selects the AEAD ("aes-gcm" or "chacha20-poly1305").
	EncryptionAlgorithm string
	// KMSProvider names the KMS provider used to unwrap EncryptionKey (informational).
	KMSProvider string
	// KMSKeyURI is the gocloud.dev secrets URI of the key wrapping EncryptionKey.
	KMSKeyURI string

	// RateLimitEnabled toggles the per-IP token bucket in front of every route.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained per-IP request rate.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the per-IP burst allowance.
	RateLimitBurst int

	// LockoutMaxAttempts is the number of failures within LockoutWindow that triggers a ban.
	LockoutMaxAttempts int
	// LockoutWindow is the failure accumulation window.
	LockoutWindow time.Duration
	// LockoutDuration is how long the resulting ban lasts.
	LockoutDuration time.Duration

	// PoWEnabled requires a solved proof-of-work challenge on register and login.
	PoWEnabled bool
	// PoWDifficulty is the number of leading zero hex digits required.
	PoWDifficulty int
	// ChallengeTTL is how long an issued challenge stays pending.
	ChallengeTTL time.Duration
	// ChallengeMaxPending bounds the in-memory challenge store.
	ChallengeMaxPending int
	// ChallengeStore selects the pending challenge backend ("memory" or "redis").
	ChallengeStore string
	// RedisURL is the redis:// URL used when ChallengeStore is "redis".
	RedisURL string

	// TrustedProxies is a comma-separated list of proxy IPs or CIDRs whose
	// X-Forwarded-For header is honored. Empty means the peer address is the client IP.
	TrustedProxies string

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Database configuration
		DBDriver: env.GetString("DB_DRIVER", "sqlite"),
		DBConnectionString: env.GetString(
			"DB_CONNECTION_STRING",
			"file:nexusdb.db?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Session tokens
		JWTSecret:     env.GetString("JWT_SECRET", DevJWTSecret),
		JWTExpiration: env.GetDuration("JWT_EXPIRATION_HOURS", 24, time.Hour),

		// Credential encryption
		EncryptionKey:       env.GetString("ENCRYPTION_KEY", DevEncryptionKey),
		EncryptionAlgorithm: env.GetString("ENCRYPTION_ALGORITHM", "aes-gcm"),
		KMSProvider:         env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:           env.GetString("KMS_KEY_URI", ""),

		// Rate limiting (per client IP)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 2.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 100),

		// Brute force lockout
		LockoutMaxAttempts: env.GetInt("LOCKOUT_MAX_ATTEMPTS", 5),
		LockoutWindow:      env.GetDuration("LOCKOUT_WINDOW_SECONDS", 300, time.Second),
		LockoutDuration:    env.GetDuration("LOCKOUT_DURATION_MINUTES", 15, time.Minute),

		// Proof of work
		PoWEnabled:          env.GetBool("POW_ENABLED", false),
		PoWDifficulty:       env.GetInt("POW_DIFFICULTY", 4),
		ChallengeTTL:        env.GetDuration("CHALLENGE_TTL_SECONDS", 300, time.Second),
		ChallengeMaxPending: env.GetInt("CHALLENGE_MAX_PENDING", 1000),
		ChallengeStore:      env.GetString("CHALLENGE_STORE", "memory"),
		RedisURL:            env.GetString("REDIS_URL", "redis://localhost:6379/0"),

		TrustedProxies: env.GetString("TRUSTED_PROXIES", ""),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", true),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", "http://localhost:3000"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "nexusdb"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate reports every configuration error that must prevent startup.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	switch c.EncryptionAlgorithm {
	case "aes-gcm", "chacha20-poly1305":
	default:
		errs = append(errs, fmt.Errorf("unsupported ENCRYPTION_ALGORITHM %q", c.EncryptionAlgorithm))
	}

	// A KMS-wrapped key can only be checked after unwrapping.
	if c.KMSKeyURI == "" {
		if _, err := ParseHexKey(c.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("ENCRYPTION_KEY: %w", err))
		}
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_HOURS must be positive"))
	}

	if c.LockoutMaxAttempts < 1 || c.LockoutWindow <= 0 || c.LockoutDuration <= 0 {
		errs = append(errs, errors.New("lockout attempts, window and duration must be positive"))
	}

	if c.PoWDifficulty < 1 || c.PoWDifficulty > 64 {
		errs = append(errs, fmt.Errorf("POW_DIFFICULTY must be between 1 and 64, got %d", c.PoWDifficulty))
	}
	if c.ChallengeTTL <= 0 || c.ChallengeMaxPending < 1 {
		errs = append(errs, errors.New("challenge TTL and max pending must be positive"))
	}
	switch c.ChallengeStore {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("unsupported CHALLENGE_STORE %q", c.ChallengeStore))
	}

	for _, proxy := range c.TrustedProxyList() {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", proxy))
		}
	}

	return errors.Join(errs...)
}

// TrustedProxyList splits TrustedProxies, dropping blank entries. It returns nil when
// no proxy is trusted.
func (c *Config) TrustedProxyList() []string {
	var proxies []string
	for _, part := range strings.Split(c.TrustedProxies, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			proxies = append(proxies, trimmed)
		}
	}
	return proxies
}

// Warnings returns non-fatal configuration problems worth logging at startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if len(c.JWTSecret) < minJWTSecretLength {
		warnings = append(warnings, fmt.Sprintf(
			"JWT_SECRET is shorter than %d characters; use a longer secret in production",
			minJWTSecretLength,
		))
	}
	if c.JWTSecret == DevJWTSecret {
		warnings = append(warnings, "JWT_SECRET is using the development default")
	}
	if c.KMSKeyURI == "" && strings.EqualFold(c.EncryptionKey, DevEncryptionKey) {
		warnings = append(warnings, "ENCRYPTION_KEY is using the development default")
	}
	return warnings
}

// ParseHexKey decodes a 32-byte key supplied as exactly 64 hex characters.
func ParseHexKey(value string) ([]byte, error) {
	if len(value) != 64 {
		return nil, fmt.Errorf("must be 64 hex characters, got %d", len(value))
	}
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("must be hex encoded: %w", err)
	}
	return key, nil
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv searches for a .env file from the current directory up to the root
// directory and loads the first one found.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
