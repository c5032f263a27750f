// Package usecase implements the saved-connection operations: owner-scoped CRUD with
// encrypted passwords, and query submission behind the query guard.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
)

// ConnectionRepository defines persistence operations for connections.
// Every lookup is scoped to the owning user; a foreign connection is not found.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *connectionDomain.Connection) error
	Get(ctx context.Context, id, userID uuid.UUID) (*connectionDomain.Connection, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*connectionDomain.Connection, error)
	Update(ctx context.Context, conn *connectionDomain.Connection) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ConnectionUseCase defines the connection operations available to an authenticated user.
type ConnectionUseCase interface {
	Create(
		ctx context.Context,
		identity authDomain.Identity,
		input *connectionDomain.ConnectionInput,
	) (*connectionDomain.Connection, error)

	Get(ctx context.Context, identity authDomain.Identity, id uuid.UUID) (*connectionDomain.Connection, error)

	List(
		ctx context.Context,
		identity authDomain.Identity,
		offset, limit int,
	) ([]*connectionDomain.Connection, error)

	Update(
		ctx context.Context,
		identity authDomain.Identity,
		id uuid.UUID,
		input *connectionDomain.ConnectionInput,
	) (*connectionDomain.Connection, error)

	Delete(ctx context.Context, identity authDomain.Identity, id uuid.UUID) error

	// Execute validates query with the query guard and acknowledges it. The query
	// is not run against the target database.
	Execute(
		ctx context.Context,
		identity authDomain.Identity,
		id uuid.UUID,
		query string,
	) (*connectionDomain.QueryResult, error)
}
