package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	banUseCase "github.com/allisson/nexusdb/internal/ban/usecase"
)

// banOutput is the JSON form of a ban record.
type banOutput struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Value     string  `json:"value"`
	Reason    *string `json:"reason,omitempty"`
	BannedAt  string  `json:"banned_at"`
	ExpiresAt *string `json:"expires_at"`
	CreatedBy *string `json:"created_by,omitempty"`
}

func toBanOutput(ban *banDomain.BannedEntity) banOutput {
	out := banOutput{
		ID:        ban.ID.String(),
		Kind:      string(ban.Kind),
		Value:     ban.Value,
		Reason:    ban.Reason,
		BannedAt:  ban.BannedAt.UTC().Format(time.RFC3339),
		CreatedBy: ban.CreatedBy,
	}
	if ban.ExpiresAt != nil {
		expiresAt := ban.ExpiresAt.UTC().Format(time.RFC3339)
		out.ExpiresAt = &expiresAt
	}
	return out
}

func describeExpiry(ban *banDomain.BannedEntity) string {
	if ban.Permanent() {
		return "permanently"
	}
	return "until " + ban.ExpiresAt.UTC().Format(time.RFC3339)
}

// RunBan appends a ban record for an IP address or user id. A zero duration records a
// permanent ban. Existing records are left untouched.
func RunBan(
	ctx context.Context,
	banUseCase banUseCase.BanUseCase,
	logger *slog.Logger,
	writer io.Writer,
	kind string,
	value string,
	reason string,
	duration time.Duration,
	actor string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	parsedKind, err := banDomain.ParseKind(strings.ToUpper(kind))
	if err != nil {
		return err
	}
	if duration < 0 {
		return fmt.Errorf("duration must not be negative, got: %s", duration)
	}

	input := &banDomain.RecordInput{
		Kind:  parsedKind,
		Value: value,
	}
	if reason != "" {
		input.Reason = &reason
	}
	if actor != "" {
		input.CreatedBy = &actor
	}
	if duration > 0 {
		input.Duration = &duration
	}

	ban, err := banUseCase.Record(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to record ban: %w", err)
	}

	logger.Info("ban recorded",
		slog.String("ban_id", ban.ID.String()),
		slog.String("kind", string(ban.Kind)),
		slog.Bool("permanent", ban.Permanent()),
	)

	if format == "json" {
		return writeJSON(writer, toBanOutput(ban))
	}

	_, _ = fmt.Fprintf(writer, "Banned %s %s %s\n", ban.Kind, ban.Value, describeExpiry(ban))
	_, _ = fmt.Fprintf(writer, "ID: %s\n", ban.ID)
	return nil
}

// RunCheckBan reports whether an IP address or user id is currently banned and lists the
// active records.
func RunCheckBan(
	ctx context.Context,
	banUseCase banUseCase.BanUseCase,
	writer io.Writer,
	kind string,
	value string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	parsedKind, err := banDomain.ParseKind(strings.ToUpper(kind))
	if err != nil {
		return err
	}

	active, err := banUseCase.ListActive(ctx, parsedKind, value)
	if err != nil {
		return fmt.Errorf("failed to check ban: %w", err)
	}

	if format == "json" {
		records := make([]banOutput, 0, len(active))
		for _, ban := range active {
			records = append(records, toBanOutput(ban))
		}
		return writeJSON(writer, map[string]any{
			"kind":   string(parsedKind),
			"value":  value,
			"banned": len(active) > 0,
			"active": records,
		})
	}

	if len(active) == 0 {
		_, _ = fmt.Fprintf(writer, "%s %s is not banned\n", parsedKind, value)
		return nil
	}

	_, _ = fmt.Fprintf(writer, "%s %s is banned (%d active record(s))\n", parsedKind, value, len(active))
	for _, ban := range active {
		reason := "-"
		if ban.Reason != nil {
			reason = *ban.Reason
		}
		_, _ = fmt.Fprintf(writer, "  %s %s: %s\n", ban.ID, describeExpiry(ban), reason)
	}
	return nil
}
