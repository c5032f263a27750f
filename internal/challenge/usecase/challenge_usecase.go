package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
	challengeService "github.com/allisson/nexusdb/internal/challenge/service"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// challengeUseCase implements ChallengeUseCase.
type challengeUseCase struct {
	store             ChallengeStore
	defaultDifficulty int
	ttl               time.Duration
	now               func() time.Time
}

// Issue creates a challenge at the default difficulty.
func (c *challengeUseCase) Issue(ctx context.Context) (*challengeDomain.Challenge, error) {
	return c.IssueWithDifficulty(ctx, c.defaultDifficulty)
}

// IssueWithDifficulty creates and stores a challenge with a random UUIDv4 id.
func (c *challengeUseCase) IssueWithDifficulty(
	ctx context.Context,
	difficulty int,
) (*challengeDomain.Challenge, error) {
	if !challengeDomain.ValidDifficulty(difficulty) {
		return nil, challengeDomain.ErrInvalidDifficulty
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate challenge id")
	}

	challenge := &challengeDomain.Challenge{
		ID:         id.String(),
		Difficulty: difficulty,
		ExpiresAt:  c.now().UTC().Add(c.ttl),
	}
	if err := c.store.Put(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// Verify consumes the challenge for id and checks nonce against it.
func (c *challengeUseCase) Verify(ctx context.Context, id, nonce string) (bool, error) {
	challenge, err := c.store.Take(ctx, id)
	if apperrors.Is(err, challengeDomain.ErrChallengeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if challenge.ExpiredAt(c.now()) {
		return false, nil
	}
	return challengeService.Meets(challenge.ID, nonce, challenge.Difficulty), nil
}

// NewChallengeUseCase creates a ChallengeUseCase. A nil now uses time.Now.
func NewChallengeUseCase(
	store ChallengeStore,
	defaultDifficulty int,
	ttl time.Duration,
	now func() time.Time,
) ChallengeUseCase {
	if now == nil {
		now = time.Now
	}
	return &challengeUseCase{
		store:             store,
		defaultDifficulty: defaultDifficulty,
		ttl:               ttl,
		now:               now,
	}
}
