// Package service implements the proof-of-work hash check and a reference solver.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
)

// Hash returns the lowercase hex SHA-256 of id concatenated with nonce.
func Hash(id, nonce string) string {
	sum := sha256.Sum256([]byte(id + nonce))
	return hex.EncodeToString(sum[:])
}

// Meets reports whether nonce solves id at difficulty.
func Meets(id, nonce string, difficulty int) bool {
	if !challengeDomain.ValidDifficulty(difficulty) {
		return false
	}
	return strings.HasPrefix(Hash(id, nonce), strings.Repeat("0", difficulty))
}

// checkEvery is how many candidates Solve tries between context checks.
const checkEvery = 4096

// Solve brute-forces the smallest decimal nonce solving id at difficulty.
// Expected work is 16^difficulty hashes; ctx bounds it.
func Solve(ctx context.Context, id string, difficulty int) (string, error) {
	if !challengeDomain.ValidDifficulty(difficulty) {
		return "", challengeDomain.ErrInvalidDifficulty
	}

	prefix := strings.Repeat("0", difficulty)
	for n := uint64(0); ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}
		nonce := strconv.FormatUint(n, 10)
		if strings.HasPrefix(Hash(id, nonce), prefix) {
			return nonce, nil
		}
	}
}
