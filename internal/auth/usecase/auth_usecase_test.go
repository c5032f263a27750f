package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	abuseService "github.com/allisson/nexusdb/internal/abuse/service"
	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	authRepository "github.com/allisson/nexusdb/internal/auth/repository"
	authService "github.com/allisson/nexusdb/internal/auth/service"
	"github.com/allisson/nexusdb/internal/auth/usecase"
	"github.com/allisson/nexusdb/internal/auth/usecase/mocks"
	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	banRepository "github.com/allisson/nexusdb/internal/ban/repository"
	banUseCase "github.com/allisson/nexusdb/internal/ban/usecase"
	"github.com/allisson/nexusdb/internal/testutil"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	repo     *mocks.MockUserRepository
	failures *mocks.MockFailureTracker
	password authService.PasswordService
	tokens   authService.TokenService
	uc       usecase.AuthUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	password, err := authService.NewPasswordService(authService.PasswordPolicyInteractive)
	require.NoError(t, err)

	f := &fixture{
		repo:     &mocks.MockUserRepository{},
		failures: &mocks.MockFailureTracker{},
		password: password,
		tokens:   authService.NewTokenService(testSecret, time.Hour, nil),
	}
	f.uc = usecase.NewAuthUseCase(f.repo, f.password, f.tokens, f.failures, nil)
	return f
}

func (f *fixture) storedUser(t *testing.T, username, password string) *authDomain.User {
	t.Helper()
	hash, err := f.password.Hash(password)
	require.NoError(t, err)
	return &authDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}
}

func TestAuthUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)

		var created *authDomain.User
		f.repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*authDomain.User) }).
			Return(nil).Once()

		session, err := f.uc.Register(ctx, &authDomain.RegisterInput{
			Username: "  alice ",
			Email:    " Alice@Example.COM ",
			Password: "correct horse battery",
		})
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, uuid.Version(7), created.ID.Version())
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, "alice@example.com", created.Email)
		assert.NotEqual(t, "correct horse battery", created.PasswordHash)
		assert.False(t, created.CreatedAt.IsZero())

		ok, err := f.password.Verify("correct horse battery", created.PasswordHash)
		require.NoError(t, err)
		assert.True(t, ok)

		claims, err := f.tokens.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, claims.Subject)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, created, session.User)
		f.repo.AssertExpectations(t)
	})

	t.Run("Error_UserAlreadyExists", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Create", ctx, mock.Anything).Return(authDomain.ErrUserAlreadyExists).Once()

		session, err := f.uc.Register(ctx, &authDomain.RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correct horse battery",
		})
		assert.ErrorIs(t, err, authDomain.ErrUserAlreadyExists)
		assert.Nil(t, session)
	})
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()
	const ip = "203.0.113.7"

	t.Run("Success_ClearsFailures", func(t *testing.T) {
		f := newFixture(t)
		user := f.storedUser(t, "alice", "s3cret-pass")
		f.repo.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		f.failures.On("Clear", ip).Return().Once()

		session, err := f.uc.Login(ctx, &authDomain.LoginInput{Username: "alice", Password: "s3cret-pass", ClientIP: ip})
		require.NoError(t, err)
		assert.Equal(t, user, session.User)
		assert.Equal(t, user.ID, session.Claims.Subject)
		f.failures.AssertExpectations(t)
		f.failures.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything)
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		f := newFixture(t)
		user := f.storedUser(t, "alice", "s3cret-pass")
		f.repo.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		f.failures.On("RecordFailure", ctx, ip).Return(nil).Once()

		session, err := f.uc.Login(ctx, &authDomain.LoginInput{Username: "alice", Password: "wrong", ClientIP: ip})
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.Nil(t, session)
		f.failures.AssertExpectations(t)
	})

	t.Run("Error_UnknownUserLooksLikeWrongPassword", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetByUsername", ctx, "ghost").Return(nil, authDomain.ErrUserNotFound).Once()
		f.failures.On("RecordFailure", ctx, ip).Return(nil).Once()

		_, err := f.uc.Login(ctx, &authDomain.LoginInput{Username: "ghost", Password: "whatever", ClientIP: ip})
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, authDomain.ErrUserNotFound)
	})

	t.Run("Error_BanTakesPrecedence", func(t *testing.T) {
		f := newFixture(t)
		user := f.storedUser(t, "alice", "s3cret-pass")
		f.repo.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		f.failures.On("RecordFailure", ctx, ip).Return(banDomain.ErrBanned).Once()

		_, err := f.uc.Login(ctx, &authDomain.LoginInput{Username: "alice", Password: "wrong", ClientIP: ip})
		assert.ErrorIs(t, err, banDomain.ErrBanned)
		assert.NotErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetByUsername", ctx, "alice").Return(nil, assert.AnError).Once()

		_, err := f.uc.Login(ctx, &authDomain.LoginInput{Username: "alice", Password: "x", ClientIP: ip})
		assert.ErrorIs(t, err, assert.AnError)
		f.failures.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything)
	})

	t.Run("Error_CorruptStoredHash", func(t *testing.T) {
		f := newFixture(t)
		user := &authDomain.User{ID: uuid.Must(uuid.NewV7()), Username: "alice", PasswordHash: "not-a-phc-string"}
		f.repo.On("GetByUsername", ctx, "alice").Return(user, nil).Once()

		_, err := f.uc.Login(ctx, &authDomain.LoginInput{Username: "alice", Password: "x", ClientIP: ip})
		assert.ErrorIs(t, err, authDomain.ErrInvalidPasswordHash)
	})
}

func TestAuthUseCase_Me(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := &authDomain.User{ID: uuid.Must(uuid.NewV7()), Username: "alice"}

	f.repo.On("GetByID", ctx, user.ID).Return(user, nil).Once()

	got, err := f.uc.Me(ctx, authDomain.Identity{UserID: user.ID, Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

// TestAuthUseCase_Login_BruteForceBan wires the real SQLite repositories, ban store
// and guard: the fifth wrong password from one IP is reported as a ban and leaves a
// durable fifteen-minute ban record.
func TestAuthUseCase_Login_BruteForceBan(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	const ip = "198.51.100.20"

	bans := banUseCase.NewBanUseCase(banRepository.NewSQLiteBanRepository(db), nil)
	guard := abuseService.NewBruteForceGuard(abuseService.Config{
		MaxAttempts: 5,
		Window:      300 * time.Second,
		BanDuration: 15 * time.Minute,
	}, bans, logger, nil)

	password, err := authService.NewPasswordService(authService.PasswordPolicyInteractive)
	require.NoError(t, err)
	uc := usecase.NewAuthUseCase(
		authRepository.NewSQLiteUserRepository(db),
		password,
		authService.NewTokenService(testSecret, time.Hour, nil),
		guard,
		nil,
	)

	_, err = uc.Register(ctx, &authDomain.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	for i := 1; i <= 4; i++ {
		_, err := uc.Login(ctx, &authDomain.LoginInput{Username: "alice", Password: "wrong", ClientIP: ip})
		require.ErrorIs(t, err, authDomain.ErrInvalidCredentials, "attempt %d", i)
	}

	_, err = uc.Login(ctx, &authDomain.LoginInput{Username: "alice", Password: "wrong", ClientIP: ip})
	require.ErrorIs(t, err, banDomain.ErrBanned)

	active, err := bans.ListActive(ctx, banDomain.KindIP, ip)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.NotNil(t, active[0].ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *active[0].ExpiresAt, 5*time.Second)
	assert.Equal(t, abuseService.BanReason, *active[0].Reason)
	assert.Equal(t, 0, guard.Failures(ip))
}
