// Package usecase implements owner-scoped saved scripts. Every stored query is
// screened by the query guard first.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	scriptDomain "github.com/allisson/nexusdb/internal/script/domain"
)

// ScriptRepository defines persistence operations for scripts.
// Every lookup is scoped to the owning user.
type ScriptRepository interface {
	Create(ctx context.Context, script *scriptDomain.Script) error
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*scriptDomain.Script, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ScriptUseCase defines the script operations available to an authenticated user.
type ScriptUseCase interface {
	Create(
		ctx context.Context,
		identity authDomain.Identity,
		input *scriptDomain.ScriptInput,
	) (*scriptDomain.Script, error)

	List(ctx context.Context, identity authDomain.Identity, offset, limit int) ([]*scriptDomain.Script, error)

	Delete(ctx context.Context, identity authDomain.Identity, id uuid.UUID) error
}
