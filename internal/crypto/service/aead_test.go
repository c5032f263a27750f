package service

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/nexusdb/internal/crypto/domain"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func newKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestAEADCipher(t *testing.T) {
	constructors := map[string]func([]byte) (*AEADCipher, error){
		"aes-gcm":           NewAESGCM,
		"chacha20-poly1305": NewChaCha20Poly1305,
	}

	for name, newCipher := range constructors {
		t.Run(name, func(t *testing.T) {
			aead, err := newCipher(newKey(t))
			require.NoError(t, err)

			t.Run("round trip", func(t *testing.T) {
				for _, plaintext := range [][]byte{{}, []byte("hunter2"), bytes.Repeat([]byte{0xff}, 4096)} {
					blob, err := aead.Seal(plaintext)
					require.NoError(t, err)
					assert.Len(t, blob.Nonce, cryptoDomain.NonceSize)
					assert.Len(t, blob.Ciphertext, len(plaintext)+cryptoDomain.TagSize)

					opened, err := aead.Open(blob)
					require.NoError(t, err)
					assert.Equal(t, len(plaintext), len(opened))
					assert.True(t, bytes.Equal(plaintext, opened))
				}
			})

			t.Run("fresh nonce per seal", func(t *testing.T) {
				a, err := aead.Seal([]byte("same"))
				require.NoError(t, err)
				b, err := aead.Seal([]byte("same"))
				require.NoError(t, err)
				assert.NotEqual(t, a.Nonce, b.Nonce)
				assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
			})

			t.Run("wrong key fails", func(t *testing.T) {
				blob, err := aead.Seal([]byte("secret"))
				require.NoError(t, err)

				other, err := newCipher(newKey(t))
				require.NoError(t, err)
				_, err = other.Open(blob)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("bad nonce length fails", func(t *testing.T) {
				blob, err := aead.Seal([]byte("secret"))
				require.NoError(t, err)
				blob.Nonce = blob.Nonce[:8]
				_, err = aead.Open(blob)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})
		})
	}

	t.Run("invalid key size", func(t *testing.T) {
		_, err := NewAESGCM(make([]byte, 16))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
		_, err = NewChaCha20Poly1305(make([]byte, 31))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("entropy failure", func(t *testing.T) {
		aead, err := NewAESGCM(newKey(t))
		require.NoError(t, err)
		aead.entropy = failingReader{}

		_, err = aead.Seal([]byte("secret"))
		assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionFailed)
	})
}
