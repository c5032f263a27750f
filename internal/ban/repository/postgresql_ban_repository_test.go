package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPostgreSQLBanRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBanRepository(db)

		now := time.Now().UTC()
		expires := now.Add(15 * time.Minute)
		ban := newBan(banDomain.KindIP, "1.2.3.4", now, &expires)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO banned_entities")).
			WithArgs(ban.ID, "IP", "1.2.3.4", ban.Reason, now, ban.ExpiresAt, ban.CreatedBy).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), ban))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_ExecFails", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBanRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO banned_entities")).WillReturnError(assert.AnError)

		err := repo.Create(context.Background(), newBan(banDomain.KindIP, "1.2.3.4", time.Now(), nil))
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to create ban")
	})
}

func TestPostgreSQLBanRepository_IsBanned(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Success_Banned", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBanRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("expires_at IS NULL OR expires_at > $3")).
			WithArgs("USER", "u1", now).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		banned, err := repo.IsBanned(context.Background(), banDomain.KindUser, "u1", now)
		require.NoError(t, err)
		assert.True(t, banned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_QueryFails", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBanRepository(db)

		mock.ExpectQuery("SELECT EXISTS").WillReturnError(assert.AnError)

		banned, err := repo.IsBanned(context.Background(), banDomain.KindUser, "u1", now)
		require.ErrorIs(t, err, assert.AnError)
		assert.False(t, banned)
	})
}

func TestPostgreSQLBanRepository_ListActive(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBanRepository(db)

		ban := newBan(banDomain.KindIP, "1.2.3.4", now, nil)
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY banned_at DESC")).
			WithArgs("IP", "1.2.3.4", now).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "entity_type", "value", "reason", "banned_at", "expires_at", "created_by"},
			).AddRow(ban.ID.String(), "IP", "1.2.3.4", "brute force", now, nil, nil))

		bans, err := repo.ListActive(context.Background(), banDomain.KindIP, "1.2.3.4", now)
		require.NoError(t, err)
		require.Len(t, bans, 1)
		assert.Equal(t, ban.ID, bans[0].ID)
		assert.Equal(t, banDomain.KindIP, bans[0].Kind)
		assert.Equal(t, "brute force", *bans[0].Reason)
		assert.Nil(t, bans[0].ExpiresAt)
		assert.Nil(t, bans[0].CreatedBy)
	})

	t.Run("Error_QueryFails", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBanRepository(db)

		mock.ExpectQuery("SELECT id").WillReturnError(assert.AnError)

		bans, err := repo.ListActive(context.Background(), banDomain.KindIP, "1.2.3.4", now)
		require.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, bans)
	})
}
