package service

import (
	"fmt"

	"github.com/allisson/go-pwdhash"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// PasswordPolicy selects the argon2id cost parameters.
type PasswordPolicy int

const (
	// PasswordPolicyModerate is the production cost.
	PasswordPolicyModerate PasswordPolicy = iota
	// PasswordPolicyInteractive is a cheaper cost, used by tests and the CLI.
	PasswordPolicyInteractive
)

// argon2PasswordService implements PasswordService using go-pwdhash (argon2id).
type argon2PasswordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService for the given cost policy.
func NewPasswordService(policy PasswordPolicy) (PasswordService, error) {
	p := pwdhash.PolicyModerate
	if policy == PasswordPolicyInteractive {
		p = pwdhash.PolicyInteractive
	}

	hasher, err := pwdhash.New(pwdhash.WithPolicy(p))
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	return &argon2PasswordService{hasher: hasher}, nil
}

// Hash hashes plaintext with a new random salt.
func (s *argon2PasswordService) Hash(plaintext string) (string, error) {
	hash, err := s.hasher.Hash([]byte(plaintext))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// Verify compares plaintext with hash in constant time.
func (s *argon2PasswordService) Verify(plaintext, hash string) (bool, error) {
	ok, err := s.hasher.Verify([]byte(plaintext), hash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", authDomain.ErrInvalidPasswordHash, err)
	}
	return ok, nil
}
