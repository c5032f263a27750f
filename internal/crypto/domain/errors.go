package domain

import (
	"github.com/allisson/nexusdb/internal/errors"
)

// Cryptographic error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key that is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEncryptionFailed indicates the encryption primitive failed (e.g., no entropy).
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed is the single error returned for every decryption failure.
	//
	// A wrong key, a truncated blob, a flipped bit and malformed hex all produce this
	// same value so callers cannot tell which one happened. It deliberately does not
	// wrap ErrInvalidInput: clients only ever see a generic internal error.
	ErrDecryptionFailed = errors.New("decryption failed")
)
