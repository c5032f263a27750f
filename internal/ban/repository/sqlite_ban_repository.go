package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	"github.com/allisson/nexusdb/internal/database"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// SQLiteBanRepository implements BannedEntity persistence for SQLite.
// UUIDs are stored as TEXT and timestamps as INTEGER Unix nanoseconds, which keeps
// the expiry comparison a plain integer comparison.
type SQLiteBanRepository struct {
	db *sql.DB
}

// Create appends a ban record.
func (s *SQLiteBanRepository) Create(ctx context.Context, ban *banDomain.BannedEntity) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO banned_entities (id, entity_type, value, reason, banned_at, expires_at, created_by)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	var expiresAt sql.NullInt64
	if ban.ExpiresAt != nil {
		expiresAt = sql.NullInt64{Int64: ban.ExpiresAt.UnixNano(), Valid: true}
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		ban.ID.String(),
		string(ban.Kind),
		ban.Value,
		ban.Reason,
		ban.BannedAt.UnixNano(),
		expiresAt,
		ban.CreatedBy,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create ban")
	}
	return nil
}

// IsBanned reports whether any record for (kind, value) is permanent or expires after now.
func (s *SQLiteBanRepository) IsBanned(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM banned_entities
				WHERE entity_type = ? AND value = ?
				  AND (expires_at IS NULL OR expires_at > ?)
			  )`

	var banned bool
	if err := querier.QueryRowContext(ctx, query, string(kind), value, now.UnixNano()).Scan(&banned); err != nil {
		return false, apperrors.Wrap(err, "failed to check ban")
	}
	return banned, nil
}

// ListActive returns the records for (kind, value) that are active at now, newest first.
func (s *SQLiteBanRepository) ListActive(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
	now time.Time,
) ([]*banDomain.BannedEntity, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT id, entity_type, value, reason, banned_at, expires_at, created_by
			  FROM banned_entities
			  WHERE entity_type = ? AND value = ?
			    AND (expires_at IS NULL OR expires_at > ?)
			  ORDER BY banned_at DESC`

	rows, err := querier.QueryContext(ctx, query, string(kind), value, now.UnixNano())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list bans")
	}
	defer func() {
		_ = rows.Close()
	}()

	var bans []*banDomain.BannedEntity
	for rows.Next() {
		var ban banDomain.BannedEntity
		var id, entityType string
		var bannedAt int64
		var expiresAt sql.NullInt64
		if err := rows.Scan(
			&id,
			&entityType,
			&ban.Value,
			&ban.Reason,
			&bannedAt,
			&expiresAt,
			&ban.CreatedBy,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan ban")
		}

		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse ban id")
		}
		ban.ID = parsed
		ban.Kind = banDomain.Kind(entityType)
		ban.BannedAt = time.Unix(0, bannedAt).UTC()
		if expiresAt.Valid {
			t := time.Unix(0, expiresAt.Int64).UTC()
			ban.ExpiresAt = &t
		}
		bans = append(bans, &ban)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate bans")
	}
	return bans, nil
}

// NewSQLiteBanRepository creates a new SQLite BannedEntity repository.
func NewSQLiteBanRepository(db *sql.DB) *SQLiteBanRepository {
	return &SQLiteBanRepository{db: db}
}
