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

// MySQLScriptRepository handles script persistence for MySQL.
// UUIDs are stored as BINARY(16) and timestamps as UTC DATETIME(6).
type MySQLScriptRepository struct {
	db *sql.DB
}

// NewMySQLScriptRepository creates a new MySQLScriptRepository.
func NewMySQLScriptRepository(db *sql.DB) *MySQLScriptRepository {
	return &MySQLScriptRepository{db: db}
}

// Create inserts a new script.
func (r *MySQLScriptRepository) Create(ctx context.Context, script *scriptDomain.Script) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO scripts (id, user_id, name, query, db_type, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, userID, err := marshalIDs(script.ID, script.UserID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		script.Name,
		script.Query,
		string(script.DBType),
		script.CreatedAt.UTC(),
		script.UpdatedAt.UTC(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create script")
	}
	return nil
}

// List returns the user's scripts, newest first.
func (r *MySQLScriptRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*scriptDomain.Script, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, name, query, db_type, created_at, updated_at
			  FROM scripts WHERE user_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	rows, err := querier.QueryContext(ctx, query, userIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list scripts")
	}
	defer func() {
		_ = rows.Close()
	}()

	var scripts []*scriptDomain.Script
	for rows.Next() {
		var script scriptDomain.Script
		var id, owner []byte
		var dbType string
		if err := rows.Scan(
			&id,
			&owner,
			&script.Name,
			&script.Query,
			&dbType,
			&script.CreatedAt,
			&script.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan script")
		}
		if err := script.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal script id")
		}
		if err := script.UserID.UnmarshalBinary(owner); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal user id")
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
func (r *MySQLScriptRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, userIDBytes, err := marshalIDs(id, userID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM scripts WHERE id = ? AND user_id = ?`, idBytes, userIDBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete script")
	}
	return requireAffected(result, "failed to delete script")
}

func marshalIDs(id, userID uuid.UUID) ([]byte, []byte, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal script id")
	}
	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal user id")
	}
	return idBytes, userIDBytes, nil
}
