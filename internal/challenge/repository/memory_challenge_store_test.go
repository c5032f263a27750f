package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newChallenge(id string, expiresAt time.Time) *challengeDomain.Challenge {
	return &challengeDomain.Challenge{ID: id, Difficulty: 4, ExpiresAt: expiresAt}
}

func TestMemoryChallengeStore_PutTake(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	store := NewMemoryChallengeStore(10, clock.Now)

	require.NoError(t, store.Put(ctx, newChallenge("a", clock.Now().Add(time.Minute))))

	got, err := store.Take(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, 4, got.Difficulty)

	_, err = store.Take(ctx, "a")
	assert.ErrorIs(t, err, challengeDomain.ErrChallengeNotFound, "challenges are single use")
	assert.Zero(t, store.Len())
	assert.Zero(t, store.expiry.Len())
}

func TestMemoryChallengeStore_TakeUnknown(t *testing.T) {
	store := NewMemoryChallengeStore(10, nil)

	_, err := store.Take(context.Background(), "missing")
	assert.ErrorIs(t, err, challengeDomain.ErrChallengeNotFound)
}

func TestMemoryChallengeStore_TakeExpired(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	store := NewMemoryChallengeStore(10, clock.Now)

	require.NoError(t, store.Put(ctx, newChallenge("a", clock.Now().Add(time.Minute))))
	clock.Advance(time.Minute)

	_, err := store.Take(ctx, "a")
	assert.ErrorIs(t, err, challengeDomain.ErrChallengeNotFound)
	assert.Zero(t, store.Len(), "expired entry is removed on take")
}

func TestMemoryChallengeStore_Bounded(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	store := NewMemoryChallengeStore(3, clock.Now)

	require.NoError(t, store.Put(ctx, newChallenge("short", clock.Now().Add(10*time.Second))))
	require.NoError(t, store.Put(ctx, newChallenge("long-1", clock.Now().Add(time.Minute))))
	require.NoError(t, store.Put(ctx, newChallenge("long-2", clock.Now().Add(time.Minute))))

	t.Run("Error_FullRefusesWithoutClearing", func(t *testing.T) {
		err := store.Put(ctx, newChallenge("extra", clock.Now().Add(time.Minute)))
		assert.ErrorIs(t, err, challengeDomain.ErrChallengeStoreFull)
		assert.Equal(t, 3, store.Len())
	})

	t.Run("Success_ExpiredEntryMakesRoom", func(t *testing.T) {
		clock.Advance(10 * time.Second)

		require.NoError(t, store.Put(ctx, newChallenge("extra", clock.Now().Add(time.Minute))))
		assert.Equal(t, 3, store.Len())

		_, err := store.Take(ctx, "short")
		assert.ErrorIs(t, err, challengeDomain.ErrChallengeNotFound)

		// Pending challenges survived the eviction.
		for _, id := range []string{"long-1", "long-2", "extra"} {
			_, err := store.Take(ctx, id)
			assert.NoError(t, err, id)
		}
	})
}

func TestMemoryChallengeStore_PutDuplicateID(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	store := NewMemoryChallengeStore(10, clock.Now)

	t.Run("Error_PendingIDConflicts", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, newChallenge("a", clock.Now().Add(time.Minute))))
		replacement := newChallenge("a", clock.Now().Add(2*time.Minute))
		replacement.Difficulty = 6

		err := store.Put(ctx, replacement)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		got, err := store.Take(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 4, got.Difficulty)
	})

	t.Run("Success_ExpiredIDCanBeReused", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, newChallenge("b", clock.Now().Add(time.Minute))))
		clock.Advance(2 * time.Minute)

		assert.NoError(t, store.Put(ctx, newChallenge("b", clock.Now().Add(time.Minute))))
	})
}

func TestMemoryChallengeStore_HeapOrder(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	store := NewMemoryChallengeStore(100, clock.Now)

	for i := 0; i < 20; i++ {
		offset := time.Duration((i*7)%20+1) * time.Second
		require.NoError(t, store.Put(ctx, newChallenge(fmt.Sprintf("c%d", i), clock.Now().Add(offset))))
	}
	// Remove from the middle to exercise heap.Remove with index bookkeeping.
	_, err := store.Take(ctx, "c5")
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	store.mu.Lock()
	store.evictExpired(clock.Now())
	store.mu.Unlock()

	// Offsets 1..10s expired, c5 (16s) was taken.
	assert.Equal(t, 9, store.Len())
	for i := range store.expiry {
		assert.Equal(t, i, store.expiry[i].index)
		assert.False(t, store.expiry[i].challenge.ExpiredAt(clock.Now()))
	}
}

func TestMemoryChallengeStore_ConcurrentTakeOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChallengeStore(10, nil)
	require.NoError(t, store.Put(ctx, newChallenge("a", time.Now().Add(time.Minute))))

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Take(ctx, "a"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}
