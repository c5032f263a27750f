package domain

import "context"

const (
	// KeySize is the required key length in bytes for every supported algorithm.
	KeySize = 32
	// NonceSize is the nonce length in bytes for every supported algorithm.
	NonceSize = 12
	// TagSize is the authentication tag length in bytes appended to each ciphertext.
	TagSize = 16
)

// KMSKeeper is the subset of *secrets.Keeper used to wrap and unwrap the credential key.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// Zero overwrites a byte slice with zeros to clear key material from memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
