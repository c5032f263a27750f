// Package repository provides script persistence for PostgreSQL, MySQL and SQLite.
// Every read and write is scoped to the owning user.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
	"github.com/allisson/nexusdb/internal/database"
	apperrors "github.com/allisson/nexusdb/internal/errors"
	scriptDomain "github.com/allisson/nexusdb/internal/script/domain"
)

// PostgreSQLScriptRepository handles script persistence for PostgreSQL.
type PostgreSQLScriptRepository struct {
	db *sql.DB
}

// NewPostgreSQLScriptRepository creates a new PostgreSQLScriptRepository.
func NewPostgreSQLScriptRepository(db *sql.DB) *PostgreSQLScriptRepository {
	return &PostgreSQLScriptRepository{db: db}
}

// Create inserts a new script.
func (r *PostgreSQLScriptRepository) Create(ctx context.Context, script *scriptDomain.Script) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO scripts (id, user_id, name, query, db_type, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		script.ID,
		script.UserID,
		script.Name,
		script.Query,
		string(script.DBType),
		script.CreatedAt,
		script.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create script")
	}
	return nil
}

// List returns the user's scripts, newest first.
func (r *PostgreSQLScriptRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*scriptDomain.Script, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, name, query, db_type, created_at, updated_at
			  FROM scripts WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list scripts")
	}
	defer func() {
		_ = rows.Close()
	}()

	var scripts []*scriptDomain.Script
	for rows.Next() {
		var script scriptDomain.Script
		var dbType string
		if err := rows.Scan(
			&script.ID,
			&script.UserID,
			&script.Name,
			&script.Query,
			&dbType,
			&script.CreatedAt,
			&script.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan script")
		}
		script.DBType = connectionDomain.DBType(dbType)
		scripts = append(scripts, &script)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate scripts")
	}
	return scripts, nil
}

// Delete removes a script owned by userID.
func (r *PostgreSQLScriptRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM scripts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete script")
	}
	return requireAffected(result, "failed to delete script")
}

// requireAffected maps zero affected rows to ErrScriptNotFound.
func requireAffected(result sql.Result, msg string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, msg)
	}
	if affected == 0 {
		return scriptDomain.ErrScriptNotFound
	}
	return nil
}
