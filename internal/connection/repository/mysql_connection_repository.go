package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
	"github.com/allisson/nexusdb/internal/database"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// MySQLConnectionRepository handles connection persistence for MySQL.
// UUIDs are stored as BINARY(16) and timestamps as UTC DATETIME(6).
type MySQLConnectionRepository struct {
	db *sql.DB
}

// NewMySQLConnectionRepository creates a new MySQLConnectionRepository.
func NewMySQLConnectionRepository(db *sql.DB) *MySQLConnectionRepository {
	return &MySQLConnectionRepository{db: db}
}

const mysqlConnectionColumns = `id, user_id, name, db_type, host, port, username, encrypted_password,
			  database_name, status, created_at, updated_at`

// Create inserts a new connection.
func (r *MySQLConnectionRepository) Create(ctx context.Context, conn *connectionDomain.Connection) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO connections (` + mysqlConnectionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, userID, err := marshalIDs(conn.ID, conn.UserID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		conn.Name,
		string(conn.DBType),
		conn.Host,
		conn.Port,
		conn.Username,
		conn.EncryptedPassword,
		conn.DatabaseName,
		conn.Status,
		conn.CreatedAt.UTC(),
		conn.UpdatedAt.UTC(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create connection")
	}
	return nil
}

// Get retrieves a connection by ID. A connection owned by another user is not found.
func (r *MySQLConnectionRepository) Get(
	ctx context.Context,
	id, userID uuid.UUID,
) (*connectionDomain.Connection, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlConnectionColumns + ` FROM connections WHERE id = ? AND user_id = ?`

	idBytes, userIDBytes, err := marshalIDs(id, userID)
	if err != nil {
		return nil, err
	}

	conn, err := scanMySQLConnection(querier.QueryRowContext(ctx, query, idBytes, userIDBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, connectionDomain.ErrConnectionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get connection")
	}
	return conn, nil
}

// List returns the user's connections, newest first.
func (r *MySQLConnectionRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*connectionDomain.Connection, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlConnectionColumns + ` FROM connections WHERE user_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	rows, err := querier.QueryContext(ctx, query, userIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list connections")
	}
	defer func() {
		_ = rows.Close()
	}()

	var conns []*connectionDomain.Connection
	for rows.Next() {
		conn, err := scanMySQLConnection(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan connection")
		}
		conns = append(conns, conn)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate connections")
	}
	return conns, nil
}

// Update overwrites the mutable fields of a connection owned by conn.UserID.
func (r *MySQLConnectionRepository) Update(ctx context.Context, conn *connectionDomain.Connection) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE connections
			  SET name = ?, db_type = ?, host = ?, port = ?, username = ?,
			      encrypted_password = ?, database_name = ?, updated_at = ?
			  WHERE id = ? AND user_id = ?`

	id, userID, err := marshalIDs(conn.ID, conn.UserID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		conn.Name,
		string(conn.DBType),
		conn.Host,
		conn.Port,
		conn.Username,
		conn.EncryptedPassword,
		conn.DatabaseName,
		conn.UpdatedAt.UTC(),
		id,
		userID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update connection")
	}
	return requireAffected(result, "failed to update connection")
}

// Delete removes a connection owned by userID.
func (r *MySQLConnectionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, userIDBytes, err := marshalIDs(id, userID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM connections WHERE id = ? AND user_id = ?`, idBytes, userIDBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete connection")
	}
	return requireAffected(result, "failed to delete connection")
}

func marshalIDs(id, userID uuid.UUID) ([]byte, []byte, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal connection id")
	}
	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal user id")
	}
	return idBytes, userIDBytes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLConnection(row rowScanner) (*connectionDomain.Connection, error) {
	var conn connectionDomain.Connection
	var id, userID []byte
	var dbType string
	if err := row.Scan(
		&id,
		&userID,
		&conn.Name,
		&dbType,
		&conn.Host,
		&conn.Port,
		&conn.Username,
		&conn.EncryptedPassword,
		&conn.DatabaseName,
		&conn.Status,
		&conn.CreatedAt,
		&conn.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := conn.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal connection id")
	}
	if err := conn.UserID.UnmarshalBinary(userID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	conn.DBType = connectionDomain.DBType(dbType)
	return &conn, nil
}
