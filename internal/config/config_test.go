package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "sqlite", cfg.DBDriver)
				assert.Contains(t, cfg.DBConnectionString, "nexusdb.db")
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
				assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
				assert.Equal(t, DevEncryptionKey, cfg.EncryptionKey)
				assert.Equal(t, "aes-gcm", cfg.EncryptionAlgorithm)
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, 2.0, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 100, cfg.RateLimitBurst)
				assert.Equal(t, 5, cfg.LockoutMaxAttempts)
				assert.Equal(t, 300*time.Second, cfg.LockoutWindow)
				assert.Equal(t, 15*time.Minute, cfg.LockoutDuration)
				assert.False(t, cfg.PoWEnabled)
				assert.Equal(t, 4, cfg.PoWDifficulty)
				assert.Equal(t, 1000, cfg.ChallengeMaxPending)
				assert.Equal(t, "memory", cfg.ChallengeStore)
				assert.Equal(t, "http://localhost:3000", cfg.CORSAllowOrigins)
				assert.Empty(t, cfg.TrustedProxies)
				assert.Nil(t, cfg.TrustedProxyList())
				assert.Equal(t, "nexusdb", cfg.MetricsNamespace)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_MAX_IDLE_CONNECTIONS": "10",
				"DB_CONN_MAX_LIFETIME":    "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load custom session and lockout configuration",
			envVars: map[string]string{
				"JWT_EXPIRATION_HOURS":     "2",
				"LOCKOUT_MAX_ATTEMPTS":     "3",
				"LOCKOUT_WINDOW_SECONDS":   "60",
				"LOCKOUT_DURATION_MINUTES": "30",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
				assert.Equal(t, 3, cfg.LockoutMaxAttempts)
				assert.Equal(t, time.Minute, cfg.LockoutWindow)
				assert.Equal(t, 30*time.Minute, cfg.LockoutDuration)
			},
		},
		{
			name: "load custom challenge configuration",
			envVars: map[string]string{
				"POW_ENABLED":     "true",
				"POW_DIFFICULTY":  "2",
				"CHALLENGE_STORE": "redis",
				"REDIS_URL":       "redis://cache:6379/1",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.PoWEnabled)
				assert.Equal(t, 2, cfg.PoWDifficulty)
				assert.Equal(t, "redis", cfg.ChallengeStore)
				assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		os.Clearenv()
		return Load()
	}

	t.Run("Success_Defaults", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("Error_ShortKey", func(t *testing.T) {
		cfg := valid()
		cfg.EncryptionKey = "abcd"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ENCRYPTION_KEY")
	})

	t.Run("Error_NonHexKey", func(t *testing.T) {
		cfg := valid()
		cfg.EncryptionKey = strings.Repeat("zz", 32)
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hex")
	})

	t.Run("Success_KMSWrappedKeySkipsHexCheck", func(t *testing.T) {
		cfg := valid()
		cfg.KMSKeyURI = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="
		cfg.EncryptionKey = "d3JhcHBlZA=="
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Error_MultipleProblemsJoined", func(t *testing.T) {
		cfg := valid()
		cfg.DBDriver = "oracle"
		cfg.EncryptionAlgorithm = "des"
		cfg.PoWDifficulty = 65
		cfg.ChallengeStore = "memcached"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_DRIVER")
		assert.Contains(t, err.Error(), "ENCRYPTION_ALGORITHM")
		assert.Contains(t, err.Error(), "POW_DIFFICULTY")
		assert.Contains(t, err.Error(), "CHALLENGE_STORE")
	})

	t.Run("Error_NonPositiveLockout", func(t *testing.T) {
		cfg := valid()
		cfg.LockoutMaxAttempts = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("Success_TrustedProxies", func(t *testing.T) {
		cfg := valid()
		cfg.TrustedProxies = "10.0.0.1, 172.16.0.0/12,,::1"
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12", "::1"}, cfg.TrustedProxyList())
	})

	t.Run("Error_InvalidTrustedProxy", func(t *testing.T) {
		cfg := valid()
		cfg.TrustedProxies = "10.0.0.1,loadbalancer"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
	})
}

func TestConfig_Warnings(t *testing.T) {
	t.Run("short secret warns but stays usable", func(t *testing.T) {
		cfg := &Config{JWTSecret: "short", EncryptionKey: strings.Repeat("ab", 32)}
		warnings := cfg.Warnings()
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "shorter than 32")
	})

	t.Run("development defaults warn", func(t *testing.T) {
		cfg := &Config{JWTSecret: DevJWTSecret, EncryptionKey: DevEncryptionKey}
		warnings := cfg.Warnings()
		assert.Len(t, warnings, 2)
	})

	t.Run("strong configuration has no warnings", func(t *testing.T) {
		cfg := &Config{
			JWTSecret:     strings.Repeat("s", 48),
			EncryptionKey: strings.Repeat("ab", 32),
		}
		assert.Empty(t, cfg.Warnings())
	})
}

func TestParseHexKey(t *testing.T) {
	key, err := ParseHexKey(DevEncryptionKey)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = ParseHexKey(DevEncryptionKey[:62])
	assert.Error(t, err)
}

func TestConfig_GetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "bogus"}).GetGinMode())
}
