// Package domain defines stored database connections. A connection belongs to exactly
// one user and keeps its password only in encrypted form.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/nexusdb/internal/errors"
)

// DBType is the kind of database a connection targets.
type DBType string

const (
	DBTypePostgreSQL DBType = "postgresql"
	DBTypeMySQL      DBType = "mysql"
	DBTypeSQLite     DBType = "sqlite"
	DBTypeMongoDB    DBType = "mongodb"
	DBTypeRedis      DBType = "redis"
)

// StatusDisconnected is the status of every newly created connection.
const StatusDisconnected = "disconnected"

// QueryAcknowledgement is the single row returned by Execute.
const QueryAcknowledgement = "Query logged in backend"

var (
	// ErrConnectionNotFound is returned for unknown ids and for connections owned by
	// another user alike.
	ErrConnectionNotFound = errors.Wrap(errors.ErrNotFound, "connection not found")

	// ErrInvalidDBType indicates a db_type outside the supported set.
	ErrInvalidDBType = errors.Wrap(errors.ErrInvalidInput, "unsupported database type")
)

// DBTypes lists the supported database types.
func DBTypes() []DBType {
	return []DBType{DBTypePostgreSQL, DBTypeMySQL, DBTypeSQLite, DBTypeMongoDB, DBTypeRedis}
}

// ParseDBType converts user input (case-insensitive) into a DBType.
func ParseDBType(value string) (DBType, error) {
	candidate := DBType(strings.ToLower(strings.TrimSpace(value)))
	for _, t := range DBTypes() {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDBType, value)
}

// Connection is a saved database connection.
// EncryptedPassword holds the hex CredentialCipher output, never the plaintext.
type Connection struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	DBType            DBType
	Host              *string
	Port              *int
	Username          *string
	EncryptedPassword *string
	DatabaseName      *string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasPassword reports whether an encrypted password is stored.
func (c *Connection) HasPassword() bool {
	return c.EncryptedPassword != nil && *c.EncryptedPassword != ""
}

// ConnectionInput carries the fields of a create or update request.
// On update a nil Password keeps the stored one and an empty Password removes it.
type ConnectionInput struct {
	Name         string
	DBType       DBType
	Host         *string
	Port         *int
	Username     *string
	Password     *string
	DatabaseName *string
}

// QueryResult is the tabular answer of Execute.
type QueryResult struct {
	Columns         []string
	Rows            []map[string]any
	ExecutionTimeMs int64
	RowsCount       int
}

// NewAcknowledgement returns the result reported for an accepted query.
func NewAcknowledgement() *QueryResult {
	return &QueryResult{
		Columns: []string{"info"},
		Rows:    []map[string]any{{"info": QueryAcknowledgement}},
	}
}
