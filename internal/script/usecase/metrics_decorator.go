package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	apperrors "github.com/allisson/nexusdb/internal/errors"
	"github.com/allisson/nexusdb/internal/metrics"
	scriptDomain "github.com/allisson/nexusdb/internal/script/domain"
)

type scriptUseCaseWithMetrics struct {
	next    ScriptUseCase
	metrics metrics.BusinessMetrics
}

// NewScriptUseCaseWithMetrics wraps a ScriptUseCase with metrics recording.
func NewScriptUseCaseWithMetrics(useCase ScriptUseCase, m metrics.BusinessMetrics) ScriptUseCase {
	return &scriptUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *scriptUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	switch {
	case err != nil && apperrors.Is(err, apperrors.ErrInvalidInput):
		status = "rejected"
	case err != nil:
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "script", operation, status)
	s.metrics.RecordDuration(ctx, "script", operation, time.Since(start), status)
}

// Create records metrics for script creation. A query refused by the guard is
// recorded as "rejected".
func (s *scriptUseCaseWithMetrics) Create(
	ctx context.Context,
	identity authDomain.Identity,
	input *scriptDomain.ScriptInput,
) (*scriptDomain.Script, error) {
	start := time.Now()
	script, err := s.next.Create(ctx, identity, input)
	s.record(ctx, "script_create", start, err)
	return script, err
}

// List records metrics for script listing.
func (s *scriptUseCaseWithMetrics) List(
	ctx context.Context,
	identity authDomain.Identity,
	offset, limit int,
) ([]*scriptDomain.Script, error) {
	start := time.Now()
	scripts, err := s.next.List(ctx, identity, offset, limit)
	s.record(ctx, "script_list", start, err)
	return scripts, err
}

// Delete records metrics for script deletion.
func (s *scriptUseCaseWithMetrics) Delete(ctx context.Context, identity authDomain.Identity, id uuid.UUID) error {
	start := time.Now()
	err := s.next.Delete(ctx, identity, id)
	s.record(ctx, "script_delete", start, err)
	return err
}
