package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	scriptDomain "github.com/allisson/nexusdb/internal/script/domain"
	"github.com/allisson/nexusdb/internal/validation"
)

type scriptUseCase struct {
	repo       ScriptRepository
	queryGuard *validation.QueryGuard
	logger     *slog.Logger
	now        func() time.Time
}

// NewScriptUseCase creates a ScriptUseCase. A nil now uses time.Now.
func NewScriptUseCase(
	repo ScriptRepository,
	queryGuard *validation.QueryGuard,
	logger *slog.Logger,
	now func() time.Time,
) ScriptUseCase {
	if now == nil {
		now = time.Now
	}
	return &scriptUseCase{
		repo:       repo,
		queryGuard: queryGuard,
		logger:     logger,
		now:        now,
	}
}

// Create screens the query and stores a new script for the caller.
func (s *scriptUseCase) Create(
	ctx context.Context,
	identity authDomain.Identity,
	input *scriptDomain.ScriptInput,
) (*scriptDomain.Script, error) {
	if err := s.queryGuard.ValidateQuery(input.Query); err != nil {
		s.logger.Warn("script query rejected",
			slog.String("user_id", identity.UserID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	now := s.now().UTC()
	script := &scriptDomain.Script{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    identity.UserID,
		Name:      strings.TrimSpace(input.Name),
		Query:     input.Query,
		DBType:    input.DBType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, script); err != nil {
		return nil, err
	}
	return script, nil
}

// List returns a page of the caller's scripts, newest first.
func (s *scriptUseCase) List(
	ctx context.Context,
	identity authDomain.Identity,
	offset, limit int,
) ([]*scriptDomain.Script, error) {
	return s.repo.List(ctx, identity.UserID, offset, limit)
}

// Delete removes a script owned by the caller.
func (s *scriptUseCase) Delete(ctx context.Context, identity authDomain.Identity, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, identity.UserID)
}
