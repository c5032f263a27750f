package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	"github.com/allisson/nexusdb/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register records metrics for account registration.
func (a *authUseCaseWithMetrics) Register(
	ctx context.Context,
	input *authDomain.RegisterInput,
) (*authDomain.Session, error) {
	start := time.Now()
	session, err := a.next.Register(ctx, input)
	a.record(ctx, "register", start, err)
	return session, err
}

// Login records metrics for login attempts.
func (a *authUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.Session, error) {
	start := time.Now()
	session, err := a.next.Login(ctx, input)
	a.record(ctx, "login", start, err)
	return session, err
}

// Me records metrics for current-user lookups.
func (a *authUseCaseWithMetrics) Me(ctx context.Context, identity authDomain.Identity) (*authDomain.User, error) {
	start := time.Now()
	user, err := a.next.Me(ctx, identity)
	a.record(ctx, "me", start, err)
	return user, err
}

func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", operation, status)
	a.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}
