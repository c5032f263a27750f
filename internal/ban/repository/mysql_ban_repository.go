package repository

import (
	"context"
	"database/sql"
	"time"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	"github.com/allisson/nexusdb/internal/database"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// MySQLBanRepository implements BannedEntity persistence for MySQL.
// Uses BINARY(16) for UUIDs and DATETIME(6) timestamps stored in UTC.
type MySQLBanRepository struct {
	db *sql.DB
}

// Create appends a ban record.
func (m *MySQLBanRepository) Create(ctx context.Context, ban *banDomain.BannedEntity) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO banned_entities (id, entity_type, value, reason, banned_at, expires_at, created_by)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := ban.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal ban id")
	}

	var expiresAt *time.Time
	if ban.ExpiresAt != nil {
		utc := ban.ExpiresAt.UTC()
		expiresAt = &utc
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		string(ban.Kind),
		ban.Value,
		ban.Reason,
		ban.BannedAt.UTC(),
		expiresAt,
		ban.CreatedBy,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create ban")
	}
	return nil
}

// IsBanned reports whether any record for (kind, value) is permanent or expires after now.
func (m *MySQLBanRepository) IsBanned(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM banned_entities
				WHERE entity_type = ? AND value = ?
				  AND (expires_at IS NULL OR expires_at > ?)
			  )`

	var banned bool
	if err := querier.QueryRowContext(ctx, query, string(kind), value, now.UTC()).Scan(&banned); err != nil {
		return false, apperrors.Wrap(err, "failed to check ban")
	}
	return banned, nil
}

// ListActive returns the records for (kind, value) that are active at now, newest first.
func (m *MySQLBanRepository) ListActive(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
	now time.Time,
) ([]*banDomain.BannedEntity, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, entity_type, value, reason, banned_at, expires_at, created_by
			  FROM banned_entities
			  WHERE entity_type = ? AND value = ?
			    AND (expires_at IS NULL OR expires_at > ?)
			  ORDER BY banned_at DESC`

	rows, err := querier.QueryContext(ctx, query, string(kind), value, now.UTC())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list bans")
	}
	defer func() {
		_ = rows.Close()
	}()

	var bans []*banDomain.BannedEntity
	for rows.Next() {
		var ban banDomain.BannedEntity
		var id []byte
		var entityType string
		if err := rows.Scan(
			&id,
			&entityType,
			&ban.Value,
			&ban.Reason,
			&ban.BannedAt,
			&ban.ExpiresAt,
			&ban.CreatedBy,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan ban")
		}

		if err := ban.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal ban id")
		}
		ban.Kind = banDomain.Kind(entityType)
		bans = append(bans, &ban)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate bans")
	}
	return bans, nil
}

// NewMySQLBanRepository creates a new MySQL BannedEntity repository.
func NewMySQLBanRepository(db *sql.DB) *MySQLBanRepository {
	return &MySQLBanRepository{db: db}
}
