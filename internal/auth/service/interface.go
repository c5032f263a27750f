// Package service provides the session token and password hashing services of the auth module.
package service

import (
	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
)

// TokenService issues and verifies stateless session tokens.
// There is no revocation: a token stays valid until its own expiry.
type TokenService interface {
	// Issue signs a token for the given identity.
	Issue(subject uuid.UUID, username string) (token string, claims authDomain.Claims, err error)

	// Verify checks the signature and expiry of token.
	// Returns ErrTokenExpired for an expired but correctly signed token and
	// ErrTokenInvalid for everything else that fails.
	Verify(token string) (authDomain.Claims, error)
}

// PasswordService hashes and verifies account passwords.
type PasswordService interface {
	// Hash returns a PHC-encoded argon2id hash with a fresh random salt.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
	// only a structurally invalid hash returns an error.
	Verify(plaintext, hash string) (bool, error)
}
