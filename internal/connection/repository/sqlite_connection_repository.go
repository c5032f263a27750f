package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
	"github.com/allisson/nexusdb/internal/database"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// SQLiteConnectionRepository handles connection persistence for SQLite.
// UUIDs are stored as TEXT and timestamps as INTEGER Unix nanoseconds.
type SQLiteConnectionRepository struct {
	db *sql.DB
}

// NewSQLiteConnectionRepository creates a new SQLiteConnectionRepository.
func NewSQLiteConnectionRepository(db *sql.DB) *SQLiteConnectionRepository {
	return &SQLiteConnectionRepository{db: db}
}

const sqliteConnectionColumns = `id, user_id, name, db_type, host, port, username, encrypted_password,
			  database_name, status, created_at, updated_at`

// Create inserts a new connection.
func (r *SQLiteConnectionRepository) Create(ctx context.Context, conn *connectionDomain.Connection) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO connections (` + sqliteConnectionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		conn.ID.String(),
		conn.UserID.String(),
		conn.Name,
		string(conn.DBType),
		conn.Host,
		conn.Port,
		conn.Username,
		conn.EncryptedPassword,
		conn.DatabaseName,
		conn.Status,
		conn.CreatedAt.UnixNano(),
		conn.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create connection")
	}
	return nil
}

// Get retrieves a connection by ID. A connection owned by another user is not found.
func (r *SQLiteConnectionRepository) Get(
	ctx context.Context,
	id, userID uuid.UUID,
) (*connectionDomain.Connection, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + sqliteConnectionColumns + ` FROM connections WHERE id = ? AND user_id = ?`

	conn, err := scanSQLiteConnection(querier.QueryRowContext(ctx, query, id.String(), userID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, connectionDomain.ErrConnectionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get connection")
	}
	return conn, nil
}

// List returns the user's connections, newest first.
func (r *SQLiteConnectionRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*connectionDomain.Connection, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + sqliteConnectionColumns + ` FROM connections WHERE user_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, userID.String(), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list connections")
	}
	defer func() {
		_ = rows.Close()
	}()

	var conns []*connectionDomain.Connection
	for rows.Next() {
		conn, err := scanSQLiteConnection(rows)
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
func (r *SQLiteConnectionRepository) Update(ctx context.Context, conn *connectionDomain.Connection) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE connections
			  SET name = ?, db_type = ?, host = ?, port = ?, username = ?,
			      encrypted_password = ?, database_name = ?, updated_at = ?
			  WHERE id = ? AND user_id = ?`

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
		conn.UpdatedAt.UnixNano(),
		conn.ID.String(),
		conn.UserID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update connection")
	}
	return requireAffected(result, "failed to update connection")
}

// Delete removes a connection owned by userID.
func (r *SQLiteConnectionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM connections WHERE id = ? AND user_id = ?`,
		id.String(),
		userID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete connection")
	}
	return requireAffected(result, "failed to delete connection")
}

func scanSQLiteConnection(row rowScanner) (*connectionDomain.Connection, error) {
	var conn connectionDomain.Connection
	var id, userID, dbType string
	var createdAt, updatedAt int64
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
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if conn.ID, err = uuid.Parse(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse connection id")
	}
	if conn.UserID, err = uuid.Parse(userID); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse user id")
	}
	conn.DBType = connectionDomain.DBType(dbType)
	conn.CreatedAt = time.Unix(0, createdAt).UTC()
	conn.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &conn, nil
}
