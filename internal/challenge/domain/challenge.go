// Package domain defines proof-of-work challenges.
//
// A challenge is solved by a nonce for which the hex SHA-256 of the challenge id
// concatenated with the nonce starts with Difficulty zero characters. Each hex zero
// is one nibble, so every extra level multiplies the expected work by 16.
package domain

import (
	"time"

	"github.com/allisson/nexusdb/internal/errors"
)

const (
	// MinDifficulty and MaxDifficulty bound the number of leading hex zeros.
	MinDifficulty = 1
	MaxDifficulty = 64
)

var (
	// ErrChallengeFailed is returned to clients when a proof is missing, wrong,
	// expired or already used. The cause is not disclosed.
	ErrChallengeFailed = errors.Wrap(errors.ErrForbidden, "proof of work challenge failed")

	// ErrChallengeNotFound indicates no pending challenge exists for an id.
	ErrChallengeNotFound = errors.Wrap(errors.ErrNotFound, "challenge not found")

	// ErrChallengeStoreFull is returned by Put when the pending-challenge bound is reached.
	ErrChallengeStoreFull = errors.Wrap(errors.ErrTooManyRequests, "too many pending challenges")

	// ErrInvalidDifficulty indicates a difficulty outside MinDifficulty..MaxDifficulty.
	ErrInvalidDifficulty = errors.Wrap(errors.ErrInvalidInput, "difficulty must be between 1 and 64")
)

// Challenge is a pending proof-of-work puzzle. It can be consumed once.
type Challenge struct {
	ID         string
	Difficulty int
	ExpiresAt  time.Time
}

// ExpiredAt reports whether the challenge can no longer be solved at now.
func (c *Challenge) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ValidDifficulty reports whether d is within the accepted range.
func ValidDifficulty(d int) bool {
	return d >= MinDifficulty && d <= MaxDifficulty
}
