package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	authService "github.com/allisson/nexusdb/internal/auth/service"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// timingPassword is hashed once and verified against when the username is unknown,
// so a missing account costs the same argon2id work as a wrong password.
const timingPassword = "nexusdb-unknown-user"

type authUseCase struct {
	userRepo        UserRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	failures        FailureTracker
	now             func() time.Time

	timingOnce sync.Once
	timingHash string
}

// NewAuthUseCase creates an AuthUseCase. A nil now uses time.Now.
func NewAuthUseCase(
	userRepo UserRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
	failures FailureTracker,
	now func() time.Time,
) AuthUseCase {
	if now == nil {
		now = time.Now
	}
	return &authUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		failures:        failures,
		now:             now,
	}
}

// Register hashes the password, stores the user and issues its first token.
func (a *authUseCase) Register(
	ctx context.Context,
	input *authDomain.RegisterInput,
) (*authDomain.Session, error) {
	hash, err := a.passwordService.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	user := &authDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return a.newSession(user)
}

// Login verifies the credentials and feeds failures to the tracker keyed by client IP.
func (a *authUseCase) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.Session, error) {
	user, err := a.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if !apperrors.Is(err, authDomain.ErrUserNotFound) {
			return nil, err
		}
		a.equalizeTiming(input.Password)
		return nil, a.fail(ctx, input.ClientIP)
	}

	ok, err := a.passwordService.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, a.fail(ctx, input.ClientIP)
	}

	a.failures.Clear(input.ClientIP)
	return a.newSession(user)
}

// Me loads the caller's account.
func (a *authUseCase) Me(ctx context.Context, identity authDomain.Identity) (*authDomain.User, error) {
	return a.userRepo.GetByID(ctx, identity.UserID)
}

// fail records a failed attempt. The tracker's ban error takes precedence over
// ErrInvalidCredentials.
func (a *authUseCase) fail(ctx context.Context, clientIP string) error {
	if err := a.failures.RecordFailure(ctx, clientIP); err != nil {
		return err
	}
	return authDomain.ErrInvalidCredentials
}

func (a *authUseCase) equalizeTiming(password string) {
	a.timingOnce.Do(func() {
		a.timingHash, _ = a.passwordService.Hash(timingPassword)
	})
	if a.timingHash != "" {
		_, _ = a.passwordService.Verify(password, a.timingHash)
	}
}

func (a *authUseCase) newSession(user *authDomain.User) (*authDomain.Session, error) {
	token, claims, err := a.tokenService.Issue(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue token")
	}
	return &authDomain.Session{Token: token, Claims: claims, User: user}, nil
}
