// Package repository provides connection persistence for PostgreSQL, MySQL and SQLite.
// Every read and write is scoped to the owning user.
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

// PostgreSQLConnectionRepository handles connection persistence for PostgreSQL.
type PostgreSQLConnectionRepository struct {
	db *sql.DB
}

// NewPostgreSQLConnectionRepository creates a new PostgreSQLConnectionRepository.
func NewPostgreSQLConnectionRepository(db *sql.DB) *PostgreSQLConnectionRepository {
	return &PostgreSQLConnectionRepository{db: db}
}

// Create inserts a new connection.
func (r *PostgreSQLConnectionRepository) Create(ctx context.Context, conn *connectionDomain.Connection) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO connections (id, user_id, name, db_type, host, port, username,
			  encrypted_password, database_name, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := querier.ExecContext(
		ctx,
		query,
		conn.ID,
		conn.UserID,
		conn.Name,
		string(conn.DBType),
		conn.Host,
		conn.Port,
		conn.Username,
		conn.EncryptedPassword,
		conn.DatabaseName,
		conn.Status,
		conn.CreatedAt,
		conn.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create connection")
	}
	return nil
}

// Get retrieves a connection by ID. A connection owned by another user is not found.
func (r *PostgreSQLConnectionRepository) Get(
	ctx context.Context,
	id, userID uuid.UUID,
) (*connectionDomain.Connection, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, name, db_type, host, port, username, encrypted_password,
			  database_name, status, created_at, updated_at
			  FROM connections WHERE id = $1 AND user_id = $2`

	var conn connectionDomain.Connection
	var dbType string
	err := querier.QueryRowContext(ctx, query, id, userID).Scan(
		&conn.ID,
		&conn.UserID,
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
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, connectionDomain.ErrConnectionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get connection")
	}
	conn.DBType = connectionDomain.DBType(dbType)
	return &conn, nil
}

// List returns the user's connections, newest first.
func (r *PostgreSQLConnectionRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*connectionDomain.Connection, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, name, db_type, host, port, username, encrypted_password,
			  database_name, status, created_at, updated_at
			  FROM connections WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list connections")
	}
	defer func() {
		_ = rows.Close()
	}()

	var conns []*connectionDomain.Connection
	for rows.Next() {
		var conn connectionDomain.Connection
		var dbType string
		if err := rows.Scan(
			&conn.ID,
			&conn.UserID,
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
			return nil, apperrors.Wrap(err, "failed to scan connection")
		}
		conn.DBType = connectionDomain.DBType(dbType)
		conns = append(conns, &conn)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate connections")
	}
	return conns, nil
}

// Update overwrites the mutable fields of a connection owned by conn.UserID.
func (r *PostgreSQLConnectionRepository) Update(ctx context.Context, conn *connectionDomain.Connection) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE connections
			  SET name = $1, db_type = $2, host = $3, port = $4, username = $5,
			      encrypted_password = $6, database_name = $7, updated_at = $8
			  WHERE id = $9 AND user_id = $10`

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
		conn.UpdatedAt,
		conn.ID,
		conn.UserID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update connection")
	}
	return requireAffected(result, "failed to update connection")
}

// Delete removes a connection owned by userID.
func (r *PostgreSQLConnectionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM connections WHERE id = $1 AND user_id = $2`

	result, err := querier.ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete connection")
	}
	return requireAffected(result, "failed to delete connection")
}

// requireAffected maps zero affected rows to ErrConnectionNotFound.
func requireAffected(result sql.Result, msg string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, msg)
	}
	if affected == 0 {
		return connectionDomain.ErrConnectionNotFound
	}
	return nil
}
