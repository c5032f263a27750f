package commands

import (
	"context"
	"fmt"
	"io"

	challengeService "github.com/allisson/nexusdb/internal/challenge/service"
)

// RunSolveChallenge searches for a nonce satisfying the challenge and prints the
// headers a client sends with a protected request.
func RunSolveChallenge(ctx context.Context, writer io.Writer, id string, difficulty int, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("challenge id must not be empty")
	}

	nonce, err := challengeService.Solve(ctx, id, difficulty)
	if err != nil {
		return fmt.Errorf("failed to solve challenge: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"challenge_id": id,
			"nonce":        nonce,
			"hash":         challengeService.Hash(id, nonce),
		})
	}

	_, _ = fmt.Fprintf(writer, "X-Challenge-ID: %s\n", id)
	_, _ = fmt.Fprintf(writer, "X-Challenge-Nonce: %s\n", nonce)
	return nil
}
