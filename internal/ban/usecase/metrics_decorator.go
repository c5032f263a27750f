package usecase

import (
	"context"
	"time"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	"github.com/allisson/nexusdb/internal/metrics"
)

// banUseCaseWithMetrics decorates BanUseCase with metrics instrumentation.
type banUseCaseWithMetrics struct {
	next    BanUseCase
	metrics metrics.BusinessMetrics
}

// NewBanUseCaseWithMetrics wraps a BanUseCase with metrics recording.
func NewBanUseCaseWithMetrics(useCase BanUseCase, m metrics.BusinessMetrics) BanUseCase {
	return &banUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (b *banUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "ban", operation, status)
	b.metrics.RecordDuration(ctx, "ban", operation, time.Since(start), status)
}

// Record records metrics for ban creation.
func (b *banUseCaseWithMetrics) Record(
	ctx context.Context,
	input *banDomain.RecordInput,
) (*banDomain.BannedEntity, error) {
	start := time.Now()
	ban, err := b.next.Record(ctx, input)
	b.record(ctx, "ban_record", start, err)
	return ban, err
}

// IsBanned records metrics for ban lookups.
func (b *banUseCaseWithMetrics) IsBanned(ctx context.Context, kind banDomain.Kind, value string) (bool, error) {
	start := time.Now()
	banned, err := b.next.IsBanned(ctx, kind, value)
	b.record(ctx, "ban_check", start, err)
	return banned, err
}

// ListActive records metrics for active ban listings.
func (b *banUseCaseWithMetrics) ListActive(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
) ([]*banDomain.BannedEntity, error) {
	start := time.Now()
	bans, err := b.next.ListActive(ctx, kind, value)
	b.record(ctx, "ban_list", start, err)
	return bans, err
}
