// Package repository implements BannedEntity persistence for PostgreSQL, MySQL and SQLite.
// Every repository only inserts and reads; ban records are never updated or deleted.
package repository

import (
	"context"
	"database/sql"
	"time"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	"github.com/allisson/nexusdb/internal/database"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// PostgreSQLBanRepository implements BannedEntity persistence for PostgreSQL.
// Uses native UUID and TIMESTAMPTZ columns with transaction support via database.GetTx().
type PostgreSQLBanRepository struct {
	db *sql.DB
}

// Create appends a ban record.
func (p *PostgreSQLBanRepository) Create(ctx context.Context, ban *banDomain.BannedEntity) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO banned_entities (id, entity_type, value, reason, banned_at, expires_at, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		ban.ID,
		string(ban.Kind),
		ban.Value,
		ban.Reason,
		ban.BannedAt,
		ban.ExpiresAt,
		ban.CreatedBy,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create ban")
	}
	return nil
}

// IsBanned reports whether any record for (kind, value) is permanent or expires after now.
func (p *PostgreSQLBanRepository) IsBanned(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM banned_entities
				WHERE entity_type = $1 AND value = $2
				  AND (expires_at IS NULL OR expires_at > $3)
			  )`

	var banned bool
	if err := querier.QueryRowContext(ctx, query, string(kind), value, now).Scan(&banned); err != nil {
		return false, apperrors.Wrap(err, "failed to check ban")
	}
	return banned, nil
}

// ListActive returns the records for (kind, value) that are active at now, newest first.
func (p *PostgreSQLBanRepository) ListActive(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
	now time.Time,
) ([]*banDomain.BannedEntity, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, entity_type, value, reason, banned_at, expires_at, created_by
			  FROM banned_entities
			  WHERE entity_type = $1 AND value = $2
			    AND (expires_at IS NULL OR expires_at > $3)
			  ORDER BY banned_at DESC`

	rows, err := querier.QueryContext(ctx, query, string(kind), value, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list bans")
	}
	defer func() {
		_ = rows.Close()
	}()

	var bans []*banDomain.BannedEntity
	for rows.Next() {
		var ban banDomain.BannedEntity
		var entityType string
		if err := rows.Scan(
			&ban.ID,
			&entityType,
			&ban.Value,
			&ban.Reason,
			&ban.BannedAt,
			&ban.ExpiresAt,
			&ban.CreatedBy,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan ban")
		}
		ban.Kind = banDomain.Kind(entityType)
		bans = append(bans, &ban)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate bans")
	}
	return bans, nil
}

// NewPostgreSQLBanRepository creates a new PostgreSQL BannedEntity repository.
func NewPostgreSQLBanRepository(db *sql.DB) *PostgreSQLBanRepository {
	return &PostgreSQLBanRepository{db: db}
}
