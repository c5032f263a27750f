package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// banUseCase implements BanUseCase on top of a BanRepository.
type banUseCase struct {
	banRepo BanRepository
	now     func() time.Time
}

// Record builds and persists a new ban record.
func (b *banUseCase) Record(
	ctx context.Context,
	input *banDomain.RecordInput,
) (*banDomain.BannedEntity, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate ban id")
	}

	now := b.now().UTC()
	ban := &banDomain.BannedEntity{
		ID:        id,
		Kind:      input.Kind,
		Value:     strings.TrimSpace(input.Value),
		Reason:    input.Reason,
		BannedAt:  now,
		CreatedBy: input.CreatedBy,
	}
	if input.Duration != nil {
		expiresAt := now.Add(*input.Duration)
		ban.ExpiresAt = &expiresAt
	}

	if err := b.banRepo.Create(ctx, ban); err != nil {
		return nil, err
	}
	return ban, nil
}

// IsBanned reports whether (kind, value) has an active ban right now.
func (b *banUseCase) IsBanned(ctx context.Context, kind banDomain.Kind, value string) (bool, error) {
	return b.banRepo.IsBanned(ctx, kind, value, b.now().UTC())
}

// ListActive returns the active records for (kind, value).
func (b *banUseCase) ListActive(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
) ([]*banDomain.BannedEntity, error) {
	return b.banRepo.ListActive(ctx, kind, value, b.now().UTC())
}

// NewBanUseCase creates a BanUseCase. A nil now uses time.Now.
func NewBanUseCase(banRepo BanRepository, now func() time.Time) BanUseCase {
	if now == nil {
		now = time.Now
	}
	return &banUseCase{
		banRepo: banRepo,
		now:     now,
	}
}
