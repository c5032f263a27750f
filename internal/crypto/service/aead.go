package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/nexusdb/internal/crypto/domain"
)

// AEADCipher wraps a cipher.AEAD with random-nonce sealing.
//
// The instance is stateless apart from the key schedule and is safe for concurrent use.
// Every Seal draws a new nonce from crypto/rand; with a 96-bit nonce the collision bound
// stays negligible well past the number of credentials this service stores.
type AEADCipher struct {
	aead    cipher.AEAD
	entropy io.Reader
}

// NewAESGCM creates an AES-256-GCM cipher. The key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AEADCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AEADCipher{aead: aead, entropy: rand.Reader}, nil
}

// NewChaCha20Poly1305 creates a ChaCha20-Poly1305 cipher. The key must be exactly 32 bytes.
func NewChaCha20Poly1305(key []byte) (*AEADCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &AEADCipher{aead: aead, entropy: rand.Reader}, nil
}

// Seal encrypts plaintext under a fresh random nonce.
func (a *AEADCipher) Seal(plaintext []byte) (cryptoDomain.EncryptedBlob, error) {
	nonce := make([]byte, a.aead.NonceSize())
	if _, err := io.ReadFull(a.entropy, nonce); err != nil {
		return cryptoDomain.EncryptedBlob{}, fmt.Errorf(
			"%w: nonce generation: %v",
			cryptoDomain.ErrEncryptionFailed,
			err,
		)
	}

	return cryptoDomain.EncryptedBlob{
		Nonce:      nonce,
		Ciphertext: a.aead.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Open authenticates and decrypts blob.
func (a *AEADCipher) Open(blob cryptoDomain.EncryptedBlob) ([]byte, error) {
	if len(blob.Nonce) != a.aead.NonceSize() || len(blob.Ciphertext) < a.aead.Overhead() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := a.aead.Open(nil, blob.Nonce, blob.Ciphertext, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
