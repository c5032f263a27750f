// Package repository implements pending-challenge stores: a bounded in-process store
// and a Redis store shared across instances.
package repository

import (
	"container/heap"
	"context"
	"sync"
	"time"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

type entry struct {
	challenge challengeDomain.Challenge
	index     int
}

// expiryHeap is a min-heap of entries ordered by ExpiresAt.
type expiryHeap []*entry

func (h expiryHeap) Len() int { return len(h) }

func (h expiryHeap) Less(i, j int) bool {
	return h[i].challenge.ExpiresAt.Before(h[j].challenge.ExpiresAt)
}

func (h expiryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *expiryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// MemoryChallengeStore keeps at most maxPending challenges in memory. Expired entries
// are evicted from the head of an expiry heap on every Put; when the store is still
// full, Put refuses instead of discarding pending challenges.
type MemoryChallengeStore struct {
	mu         sync.Mutex
	entries    map[string]*entry
	expiry     expiryHeap
	maxPending int
	now        func() time.Time
}

// NewMemoryChallengeStore creates a bounded store. A nil now uses time.Now.
func NewMemoryChallengeStore(maxPending int, now func() time.Time) *MemoryChallengeStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryChallengeStore{
		entries:    make(map[string]*entry),
		maxPending: maxPending,
		now:        now,
	}
}

// Put stores a pending challenge. Returns ErrConflict when the id is already pending
// and ErrChallengeStoreFull when maxPending unexpired challenges are already held.
func (s *MemoryChallengeStore) Put(_ context.Context, challenge *challengeDomain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired(s.now())

	if _, ok := s.entries[challenge.ID]; ok {
		return apperrors.Wrap(apperrors.ErrConflict, "challenge id already pending")
	}

	if len(s.entries) >= s.maxPending {
		return challengeDomain.ErrChallengeStoreFull
	}

	e := &entry{challenge: *challenge}
	heap.Push(&s.expiry, e)
	s.entries[challenge.ID] = e
	return nil
}

// Take removes and returns the challenge for id. Returns ErrChallengeNotFound when
// the id is unknown, already taken or expired.
func (s *MemoryChallengeStore) Take(_ context.Context, id string) (*challengeDomain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, challengeDomain.ErrChallengeNotFound
	}
	delete(s.entries, id)
	heap.Remove(&s.expiry, e.index)

	if e.challenge.ExpiredAt(s.now()) {
		return nil, challengeDomain.ErrChallengeNotFound
	}

	challenge := e.challenge
	return &challenge, nil
}

// Len returns the number of held challenges, including expired ones not yet evicted.
func (s *MemoryChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryChallengeStore) evictExpired(now time.Time) {
	for s.expiry.Len() > 0 && s.expiry[0].challenge.ExpiredAt(now) {
		e := heap.Pop(&s.expiry).(*entry)
		delete(s.entries, e.challenge.ID)
	}
}
