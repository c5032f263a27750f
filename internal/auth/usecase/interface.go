// Package usecase implements account registration, login and current-user lookup.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create inserts a user, returning ErrUserAlreadyExists for a taken username or email.
	Create(ctx context.Context, user *authDomain.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error)

	GetByUsername(ctx context.Context, username string) (*authDomain.User, error)
}

// FailureTracker counts failed logins per client and escalates to a ban.
// It is satisfied by the brute force guard.
type FailureTracker interface {
	// RecordFailure returns an error wrapping ErrBanned once the key crosses the threshold.
	RecordFailure(ctx context.Context, key string) error

	// Clear resets the counter for key.
	Clear(key string)
}

// AuthUseCase defines the account operations exposed over HTTP.
type AuthUseCase interface {
	// Register creates an account and returns a session for it.
	Register(ctx context.Context, input *authDomain.RegisterInput) (*authDomain.Session, error)

	// Login verifies credentials. An unknown username and a wrong password both return
	// ErrInvalidCredentials, unless the failure triggered a ban, in which case the
	// returned error wraps ErrBanned.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.Session, error)

	// Me returns the account of the authenticated caller.
	Me(ctx context.Context, identity authDomain.Identity) (*authDomain.User, error)
}
