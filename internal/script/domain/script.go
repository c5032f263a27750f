// Package domain defines saved scripts: named queries a user keeps for later use.
// A script belongs to exactly one user.
package domain

import (
	"time"

	"github.com/google/uuid"

	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
	"github.com/allisson/nexusdb/internal/errors"
)

// ErrScriptNotFound is returned for unknown ids and for scripts owned by another user.
var ErrScriptNotFound = errors.Wrap(errors.ErrNotFound, "script not found")

// Script is a saved query. Query has passed the query guard before it is stored.
type Script struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Query     string
	DBType    connectionDomain.DBType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScriptInput carries the fields of a create request.
type ScriptInput struct {
	Name   string
	Query  string
	DBType connectionDomain.DBType
}
