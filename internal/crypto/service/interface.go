// Package service provides the AEAD ciphers and the credential cipher used to encrypt
// third-party database passwords at rest.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/nexusdb/internal/crypto/domain"
)

// AEAD seals and opens blobs under a single fixed key.
type AEAD interface {
	// Seal encrypts plaintext under a freshly drawn random nonce.
	Seal(plaintext []byte) (cryptoDomain.EncryptedBlob, error)

	// Open authenticates and decrypts blob. Any failure is ErrDecryptionFailed.
	Open(blob cryptoDomain.EncryptedBlob) ([]byte, error)
}

// AEADManager creates AEAD instances for a key and algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// CredentialCipher encrypts stored credentials.
type CredentialCipher interface {
	// Encrypt returns nonce‖ciphertext‖tag.
	Encrypt(plaintext []byte) ([]byte, error)
	// Decrypt reverses Encrypt; every failure is ErrDecryptionFailed.
	Decrypt(blob []byte) ([]byte, error)
	// EncryptString returns the hex text form of Encrypt.
	EncryptString(plaintext string) (string, error)
	// DecryptString reverses EncryptString; malformed hex is ErrDecryptionFailed.
	DecryptString(text string) (string, error)
}

// KMSService opens gocloud.dev secrets keepers.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
