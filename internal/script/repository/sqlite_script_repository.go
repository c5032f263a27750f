package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
	"github.com/allisson/nexusdb/internal/database"
	apperrors "github.com/allisson/nexusdb/internal/errors"
	scriptDomain "github.com/allisson/nexusdb/internal/script/domain"
)

// SQLiteScriptRepository handles script persistence for SQLite.
// UUIDs are stored as TEXT and timestamps as INTEGER Unix nanoseconds.
type SQLiteScriptRepository struct {
	db *sql.DB
}

// NewSQLiteScriptRepository creates a new SQLiteScriptRepository.
func NewSQLiteScriptRepository(db *sql.DB) *SQLiteScriptRepository {
	return &SQLiteScriptRepository{db: db}
}

// Create inserts a new script.
func (r *SQLiteScriptRepository) Create(ctx context.Context, script *scriptDomain.Script) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO scripts (id, user_id, name, query, db_type, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		script.ID.String(),
		script.UserID.String(),
		script.Name,
		script.Query,
		string(script.DBType),
		script.CreatedAt.UnixNano(),
		script.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create script")
	}
	return nil
}

// List returns the user's scripts, newest first.
func (r *SQLiteScriptRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*scriptDomain.Script, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, name, query, db_type, created_at, updated_at
			  FROM scripts WHERE user_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, userID.String(), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list scripts")
	}
	defer func() {
		_ = rows.Close()
	}()

	var scripts []*scriptDomain.Script
	for rows.Next() {
		var script scriptDomain.Script
		var id, owner, dbType string
		var createdAt, updatedAt int64
		if err := rows.Scan(
			&id,
			&owner,
			&script.Name,
			&script.Query,
			&dbType,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan script")
		}
		if script.ID, err = uuid.Parse(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse script id")
		}
		if script.UserID, err = uuid.Parse(owner); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse user id")
		}
		script.DBType = connectionDomain.DBType(dbType)
		script.CreatedAt = time.Unix(0, createdAt).UTC()
		script.UpdatedAt = time.Unix(0, updatedAt).UTC()
		scripts = append(scripts, &script)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate scripts")
	}
	return scripts, nil
}

// Delete removes a script owned by userID.
func (r *SQLiteScriptRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM scripts WHERE id = ? AND user_id = ?`,
		id.String(),
		userID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete script")
	}
	return requireAffected(result, "failed to delete script")
}
