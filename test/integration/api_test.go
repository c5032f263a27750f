// Package integration provides end-to-end tests of the HTTP API assembled by the
// dependency injection container. SQLite always runs; PostgreSQL and MySQL run when
// their test servers are reachable.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/nexusdb/internal/app"
	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	challengeHTTP "github.com/allisson/nexusdb/internal/challenge/http"
	challengeService "github.com/allisson/nexusdb/internal/challenge/service"
	"github.com/allisson/nexusdb/internal/config"
	"github.com/allisson/nexusdb/internal/database"
	"github.com/allisson/nexusdb/internal/testutil"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and decoded body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
	token string,
	headers map[string]string,
) (*http.Response, map[string]any) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	decoded := map[string]any{}
	if len(respBody) > 0 {
		require.NoError(t, json.Unmarshal(respBody, &decoded), "body: %s", respBody)
	}
	return resp, decoded
}

// register creates an account and returns its session token and user id.
func (ctx *integrationTestContext) register(t *testing.T, username string) (string, string) {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse-9",
	}, "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	token, _ := body["token"].(string)
	user, _ := body["user"].(map[string]any)
	userID, _ := user["id"].(string)
	require.NotEmpty(t, token)
	require.NotEmpty(t, userID)
	return token, userID
}

// setupIntegrationTest initializes the container against dbDriver and serves its router.
func setupIntegrationTest(t *testing.T, dbDriver string, mutate func(*config.Config)) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var dsn string
	switch dbDriver {
	case database.DriverPostgres:
		testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	case database.DriverMySQL:
		testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	default:
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", filepath.Join(t.TempDir(), "nexusdb.db"))
	}

	cfg := &config.Config{
		ServerHost:              "localhost",
		ServerPort:              8080,
		DBDriver:                dbDriver,
		DBConnectionString:      dsn,
		DBMaxOpenConnections:    10,
		DBMaxIdleConnections:    5,
		DBConnMaxLifetime:       time.Hour,
		LogLevel:                "error",
		JWTSecret:               "integration-secret-0123456789abcdef",
		JWTExpiration:           time.Hour,
		EncryptionKey:           config.DevEncryptionKey,
		EncryptionAlgorithm:     "aes-gcm",
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 2,
		RateLimitBurst:          100,
		LockoutMaxAttempts:      5,
		LockoutWindow:           5 * time.Minute,
		LockoutDuration:         15 * time.Minute,
		PoWDifficulty:           2,
		ChallengeTTL:            5 * time.Minute,
		ChallengeMaxPending:     100,
		ChallengeStore:          "memory",
		MetricsNamespace:        "nexusdb",
	}
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	container := app.NewContainer(cfg)
	container.SetVersion("integration")

	db, err := container.DB()
	require.NoError(t, err, "failed to get database")
	if dbDriver == database.DriverSQLite {
		require.NoError(t, database.Migrate(db, dbDriver), "failed to run sqlite migrations")
	}

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")
	handler := httpSrv.Handler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	ctx := &integrationTestContext{
		container: container,
		db:        db,
		server:    httptest.NewServer(handler),
		dbDriver:  dbDriver,
	}
	t.Cleanup(func() { teardownIntegrationTest(t, ctx) })
	return ctx
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}
	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}
}

var drivers = []struct {
	name     string
	dbDriver string
}{
	{"SQLite", database.DriverSQLite},
	{"PostgreSQL", database.DriverPostgres},
	{"MySQL", database.DriverMySQL},
}

func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver, nil)

			resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, "", nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "healthy", body["status"])
			assert.Equal(t, "integration", body["version"])
			assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

			resp, body = ctx.makeRequest(t, http.MethodGet, "/ready", nil, "", nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "ready", body["status"])
		})
	}
}

func TestIntegration_Connections_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver, nil)
			token, _ := ctx.register(t, "alice")
			otherToken, _ := ctx.register(t, "mallory")

			var connectionID string

			t.Run("01_Create", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/connections", map[string]any{
					"name":          "orders",
					"db_type":       "postgresql",
					"host":          "db.internal",
					"port":          5432,
					"username":      "app",
					"password":      "hunter2",
					"database_name": "orders",
				}, token, nil)
				require.Equal(t, http.StatusCreated, resp.StatusCode, body)
				assert.Equal(t, true, body["has_password"])
				assert.NotContains(t, body, "password")
				connectionID, _ = body["id"].(string)
				require.NotEmpty(t, connectionID)
			})

			t.Run("02_PasswordEncryptedAtRest", func(t *testing.T) {
				query := "SELECT encrypted_password FROM connections WHERE id = ?"
				if tc.dbDriver == database.DriverPostgres {
					query = "SELECT encrypted_password FROM connections WHERE id = $1"
				}
				var stored string
				require.NoError(t, ctx.db.QueryRow(query, connectionID).Scan(&stored))
				assert.NotContains(t, stored, "hunter2")

				cipher, err := ctx.container.CredentialCipher()
				require.NoError(t, err)
				plaintext, err := cipher.DecryptString(stored)
				require.NoError(t, err)
				assert.Equal(t, "hunter2", plaintext)
			})

			t.Run("03_OwnerOnly", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/connections/"+connectionID, nil, otherToken, nil)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})

			t.Run("04_UpdateKeepsPassword", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPut, "/v1/connections/"+connectionID, map[string]any{
					"name":    "orders-replica",
					"db_type": "postgresql",
					"host":    "replica.internal",
					"port":    5433,
				}, token, nil)
				require.Equal(t, http.StatusOK, resp.StatusCode, body)
				assert.Equal(t, "orders-replica", body["name"])
				assert.Equal(t, true, body["has_password"])
			})

			t.Run("05_List", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/connections?offset=0&limit=10", nil, token, nil)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				data, _ := body["data"].([]any)
				assert.Len(t, data, 1)
			})

			t.Run("06_Execute", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/connections/"+connectionID+"/execute",
					map[string]string{"query": "SELECT id FROM orders WHERE id = 7"}, token, nil)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, float64(0), body["rows_count"])

				resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/connections/"+connectionID+"/execute",
					map[string]string{"query": "SELECT 1; DROP TABLE users"}, token, nil)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
				assert.Equal(t, "invalid_input", body["error"])
			})

			t.Run("07_Delete", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodDelete, "/v1/connections/"+connectionID, nil, token, nil)
				assert.Equal(t, http.StatusNoContent, resp.StatusCode)

				resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/connections/"+connectionID, nil, token, nil)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})
		})
	}
}

func TestIntegration_Scripts_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver, nil)
			token, _ := ctx.register(t, "erin")
			otherToken, _ := ctx.register(t, "frank")

			var scriptID string

			t.Run("01_Create", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/scripts", map[string]string{
					"name":    "daily revenue",
					"query":   "SELECT sum(total) FROM orders WHERE day = CURRENT_DATE",
					"db_type": "mysql",
				}, token, nil)
				require.Equal(t, http.StatusCreated, resp.StatusCode, body)
				assert.Equal(t, "mysql", body["db_type"])
				scriptID, _ = body["id"].(string)
				require.NotEmpty(t, scriptID)
			})

			t.Run("02_RejectsDangerousQuery", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/scripts", map[string]string{
					"name":    "exfil",
					"query":   "SELECT name FROM t UNION SELECT password_hash FROM users",
					"db_type": "mysql",
				}, token, nil)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
				assert.Equal(t, "invalid_input", body["error"])
			})

			t.Run("03_ListOwnerOnly", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/scripts", nil, token, nil)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				data, _ := body["data"].([]any)
				assert.Len(t, data, 1)

				resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/scripts", nil, otherToken, nil)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				data, _ = body["data"].([]any)
				assert.Empty(t, data)
			})

			t.Run("04_Delete", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodDelete, "/v1/scripts/"+scriptID, nil, otherToken, nil)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)

				resp, _ = ctx.makeRequest(t, http.MethodDelete, "/v1/scripts/"+scriptID, nil, token, nil)
				assert.Equal(t, http.StatusNoContent, resp.StatusCode)
			})
		})
	}
}

func TestIntegration_AbuseProtection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			t.Run("BannedUserRejected", func(t *testing.T) {
				ctx := setupIntegrationTest(t, tc.dbDriver, nil)
				token, userID := ctx.register(t, "dave")

				banUseCase, err := ctx.container.BanUseCase()
				require.NoError(t, err)
				_, err = banUseCase.Record(context.Background(), &banDomain.RecordInput{
					Kind:  banDomain.KindUser,
					Value: userID,
				})
				require.NoError(t, err)

				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/auth/me", nil, token, nil)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				assert.Equal(t, "access_denied", body["error"])
			})

			t.Run("BruteForceBansIP", func(t *testing.T) {
				ctx := setupIntegrationTest(t, tc.dbDriver, nil)
				ctx.register(t, "erin")

				wrong := map[string]string{"username": "erin", "password": "not-the-password"}
				for i := 0; i < 4; i++ {
					resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/auth/login", wrong, "", nil)
					require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
				}
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/auth/login", wrong, "", nil)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)

				banUseCase, err := ctx.container.BanUseCase()
				require.NoError(t, err)
				active, err := banUseCase.ListActive(context.Background(), banDomain.KindIP, "127.0.0.1")
				require.NoError(t, err)
				require.Len(t, active, 1)
				require.NotNil(t, active[0].ExpiresAt)
				assert.WithinDuration(t, time.Now().Add(15*time.Minute), *active[0].ExpiresAt, time.Minute)
			})

			t.Run("ProofOfWorkRequired", func(t *testing.T) {
				ctx := setupIntegrationTest(t, tc.dbDriver, func(cfg *config.Config) { cfg.PoWEnabled = true })
				register := map[string]string{
					"username": "frank",
					"email":    "frank@example.com",
					"password": "correct-horse-9",
				}

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/auth/register", register, "", nil)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				assert.Equal(t, "challenge_failed", body["error"])

				resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/challenges", nil, "", nil)
				require.Equal(t, http.StatusCreated, resp.StatusCode)
				id, _ := body["challenge_id"].(string)
				nonce, err := challengeService.Solve(context.Background(), id, 2)
				require.NoError(t, err)

				proof := map[string]string{
					challengeHTTP.HeaderChallengeID:    id,
					challengeHTTP.HeaderChallengeNonce: nonce,
				}
				resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/auth/register", register, "", proof)
				assert.Equal(t, http.StatusCreated, resp.StatusCode)

				// A challenge is consumed by its first verification.
				register["username"] = "frank2"
				register["email"] = "frank2@example.com"
				resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/auth/register", register, "", proof)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			})
		})
	}
}
