package commands

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/nexusdb/internal/crypto/domain"
	cryptoService "github.com/allisson/nexusdb/internal/crypto/service"
)

// MockKMSService is a mock implementation of cryptoService.KMSService.
type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, keyURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func localKeyURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestRunCreateEncryptionKey(t *testing.T) {
	ctx := context.Background()
	envLine := regexp.MustCompile(`ENCRYPTION_KEY="([^"]+)"`)

	t.Run("plaintext", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, &MockKMSService{}, quietLogger(), &out, "", "")
		require.NoError(t, err)

		match := envLine.FindStringSubmatch(out.String())
		require.Len(t, match, 2)
		key, err := hex.DecodeString(match[1])
		require.NoError(t, err)
		assert.Len(t, key, cryptoDomain.KeySize)
		assert.NotContains(t, out.String(), "KMS_KEY_URI")
	})

	t.Run("kms", func(t *testing.T) {
		keyURI := localKeyURI(t)
		kms := cryptoService.NewKMSService()

		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, kms, quietLogger(), &out, "localsecrets", keyURI)
		require.NoError(t, err)
		assert.Contains(t, out.String(), `KMS_PROVIDER="localsecrets"`)
		assert.Contains(t, out.String(), `KMS_KEY_URI="`+keyURI+`"`)

		match := envLine.FindStringSubmatch(out.String())
		require.Len(t, match, 2)
		key, err := cryptoService.UnwrapKey(ctx, kms, keyURI, match[1])
		require.NoError(t, err)
		assert.Len(t, key, cryptoDomain.KeySize)
	})

	t.Run("missing-provider", func(t *testing.T) {
		err := RunCreateEncryptionKey(ctx, &MockKMSService{}, quietLogger(), &bytes.Buffer{}, "", "base64key://x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--kms-provider is required")
	})

	t.Run("kms-open-fails", func(t *testing.T) {
		kms := &MockKMSService{}
		kms.On("OpenKeeper", ctx, "awskms:///alias/app").Return(nil, errors.New("no credentials")).Once()

		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, kms, quietLogger(), &out, "awskms", "awskms:///alias/app")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to wrap encryption key")
		assert.Empty(t, out.String())
		kms.AssertExpectations(t)
	})
}
