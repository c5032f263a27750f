package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

const challengeKeyPrefix = "nexusdb:challenge:"

type redisChallengeRecord struct {
	Difficulty int   `json:"difficulty"`
	ExpiresAt  int64 `json:"expires_at"`
}

// RedisChallengeStore keeps pending challenges in Redis. Expiry is the key TTL and
// consumption is a single GETDEL, so a challenge is accepted at most once across
// every instance sharing the server.
type RedisChallengeStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisChallengeStore creates a store on client. A nil now uses time.Now.
func NewRedisChallengeStore(client redis.Cmdable, now func() time.Time) *RedisChallengeStore {
	if now == nil {
		now = time.Now
	}
	return &RedisChallengeStore{client: client, now: now}
}

func (s *RedisChallengeStore) key(id string) string {
	return challengeKeyPrefix + id
}

// Put stores challenge with SET NX and a TTL ending at its expiry.
func (s *RedisChallengeStore) Put(ctx context.Context, challenge *challengeDomain.Challenge) error {
	ttl := challenge.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "challenge already expired")
	}

	payload, err := json.Marshal(redisChallengeRecord{
		Difficulty: challenge.Difficulty,
		ExpiresAt:  challenge.ExpiresAt.UnixNano(),
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode challenge")
	}

	ok, err := s.client.SetNX(ctx, s.key(challenge.ID), payload, ttl).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to store challenge")
	}
	if !ok {
		return apperrors.Wrap(apperrors.ErrConflict, "challenge id already pending")
	}
	return nil
}

// Take atomically reads and deletes the challenge for id.
func (s *RedisChallengeStore) Take(ctx context.Context, id string) (*challengeDomain.Challenge, error) {
	data, err := s.client.GetDel(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, challengeDomain.ErrChallengeNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to take challenge")
	}

	var record redisChallengeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode challenge")
	}

	challenge := &challengeDomain.Challenge{
		ID:         id,
		Difficulty: record.Difficulty,
		ExpiresAt:  time.Unix(0, record.ExpiresAt).UTC(),
	}
	if challenge.ExpiredAt(s.now()) {
		return nil, challengeDomain.ErrChallengeNotFound
	}
	return challenge, nil
}
