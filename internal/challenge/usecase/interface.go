// Package usecase issues and verifies proof-of-work challenges.
package usecase

import (
	"context"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
)

// ChallengeStore holds pending challenges until they are consumed or expire.
type ChallengeStore interface {
	// Put stores a pending challenge. Bounded stores return ErrChallengeStoreFull.
	Put(ctx context.Context, challenge *challengeDomain.Challenge) error

	// Take removes and returns the challenge. Returns ErrChallengeNotFound when it is
	// unknown, already consumed or expired.
	Take(ctx context.Context, id string) (*challengeDomain.Challenge, error)
}

// ChallengeUseCase defines the proof-of-work operations.
type ChallengeUseCase interface {
	// Issue creates a challenge at the configured default difficulty.
	Issue(ctx context.Context) (*challengeDomain.Challenge, error)

	// IssueWithDifficulty creates a challenge at difficulty (1..64 leading hex zeros).
	IssueWithDifficulty(ctx context.Context, difficulty int) (*challengeDomain.Challenge, error)

	// Verify consumes the challenge before checking the nonce, so a challenge is
	// accepted at most once whether or not the proof is correct. Unknown or expired
	// challenges return false without an error.
	Verify(ctx context.Context, id, nonce string) (bool, error)
}
