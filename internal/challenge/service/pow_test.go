package service

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
)

func TestHash(t *testing.T) {
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Hash("ab", "c"))
	assert.Len(t, Hash("id", "nonce"), 64)
}

func TestSolve(t *testing.T) {
	t.Run("Success_SmallestNonce", func(t *testing.T) {
		id := "5f0c3c1e-8a3e-4a43-9d0a-1f5d3c2b1a00"

		nonce, err := Solve(context.Background(), id, 2)
		require.NoError(t, err)
		assert.True(t, Meets(id, nonce, 2))
		assert.True(t, strings.HasPrefix(Hash(id, nonce), "00"))

		n, err := strconv.ParseUint(nonce, 10, 64)
		require.NoError(t, err)
		for i := uint64(0); i < n; i++ {
			assert.False(t, Meets(id, strconv.FormatUint(i, 10), 2), "nonce %d is smaller", i)
		}
	})

	t.Run("Error_InvalidDifficulty", func(t *testing.T) {
		_, err := Solve(context.Background(), "id", 0)
		assert.ErrorIs(t, err, challengeDomain.ErrInvalidDifficulty)

		_, err = Solve(context.Background(), "id", 65)
		assert.ErrorIs(t, err, challengeDomain.ErrInvalidDifficulty)
	})

	t.Run("Error_ContextCancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Solve(ctx, "id", 64)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMeets(t *testing.T) {
	id := "challenge"
	nonce, err := Solve(context.Background(), id, 3)
	require.NoError(t, err)

	assert.True(t, Meets(id, nonce, 1))
	assert.True(t, Meets(id, nonce, 3))
	assert.Equal(t, strings.HasPrefix(Hash(id, nonce), "0000"), Meets(id, nonce, 4))
	assert.False(t, Meets(id, nonce, 0))
	assert.False(t, Meets(id, nonce, 65))
}
