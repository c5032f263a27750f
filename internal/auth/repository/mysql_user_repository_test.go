package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
)

func TestMySQLUserRepository_Create(t *testing.T) {
	t.Run("Success_BinaryIDAndUTC", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLUserRepository(db)

		user := newUser("alice")
		loc := time.FixedZone("UTC+2", 2*60*60)
		user.CreatedAt = time.Date(2026, 5, 1, 12, 0, 0, 0, loc)
		user.UpdatedAt = user.CreatedAt
		id, err := user.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(id, "alice", "alice@example.com", user.PasswordHash, user.CreatedAt.UTC(), user.UpdatedAt.UTC()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateEntry", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'username'"})

		err := repo.Create(context.Background(), newUser("alice"))
		assert.ErrorIs(t, err, authDomain.ErrUserAlreadyExists)
	})

	t.Run("Error_OtherMySQLError", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{Number: 1146})

		err := repo.Create(context.Background(), newUser("alice"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, authDomain.ErrUserAlreadyExists)
	})
}

func TestMySQLUserRepository_GetByID(t *testing.T) {
	user := newUser("alice")
	id, err := user.ID.MarshalBinary()
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				id, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
			))

		got, err := repo.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "alice", got.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectQuery("FROM users WHERE id").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), user.ID)
		assert.ErrorIs(t, err, authDomain.ErrUserNotFound)
	})

	t.Run("Error_InvalidBinaryID", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectQuery("FROM users WHERE id").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				[]byte{0x01, 0x02}, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
			))

		_, err := repo.GetByID(context.Background(), user.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal user id")
	})
}

func TestMySQLUserRepository_GetByUsername(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMySQLUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, authDomain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
