package usecase

import (
	"context"
	"time"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
	"github.com/allisson/nexusdb/internal/metrics"
)

// challengeUseCaseWithMetrics decorates ChallengeUseCase with metrics instrumentation.
// Verify reports "rejected" for a well-formed call whose proof did not hold.
type challengeUseCaseWithMetrics struct {
	next    ChallengeUseCase
	metrics metrics.BusinessMetrics
}

// NewChallengeUseCaseWithMetrics wraps a ChallengeUseCase with metrics recording.
func NewChallengeUseCaseWithMetrics(useCase ChallengeUseCase, m metrics.BusinessMetrics) ChallengeUseCase {
	return &challengeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *challengeUseCaseWithMetrics) record(ctx context.Context, operation, status string, start time.Time) {
	c.metrics.RecordOperation(ctx, "challenge", operation, status)
	c.metrics.RecordDuration(ctx, "challenge", operation, time.Since(start), status)
}

func (c *challengeUseCaseWithMetrics) Issue(ctx context.Context) (*challengeDomain.Challenge, error) {
	start := time.Now()
	challenge, err := c.next.Issue(ctx)
	c.record(ctx, "challenge_issue", statusOf(err), start)
	return challenge, err
}

func (c *challengeUseCaseWithMetrics) IssueWithDifficulty(
	ctx context.Context,
	difficulty int,
) (*challengeDomain.Challenge, error) {
	start := time.Now()
	challenge, err := c.next.IssueWithDifficulty(ctx, difficulty)
	c.record(ctx, "challenge_issue", statusOf(err), start)
	return challenge, err
}

func (c *challengeUseCaseWithMetrics) Verify(ctx context.Context, id, nonce string) (bool, error) {
	start := time.Now()
	ok, err := c.next.Verify(ctx, id, nonce)

	status := statusOf(err)
	if err == nil && !ok {
		status = "rejected"
	}
	c.record(ctx, "challenge_verify", status, start)
	return ok, err
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
