package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"message_wall/internal/common"
	"message_wall/internal/domain/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestUserRepository_Create_PostgresUniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Create(context.Background(), &model.User{Username: "alice", Role: model.RoleUser})
	assert.ErrorIs(t, err, common.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_Error(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "sqlUserRepository.FindByID")
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLUserRepository(db)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "hashed_password", "nickname", "avatar", "role", "is_active", "created_at"}).
		AddRow(int64(3), "admin", "hash", "Administrator", "", "admin", true, created)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("admin").
		WillReturnRows(rows)

	u, err := repo.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, created, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_PassesNilForUnsetFields(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLUserRepository(db)
	role := model.RoleAdmin

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
		WithArgs(nil, nil, "admin", nil, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 5, model.UserUpdate{Role: &role})
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeRepository_DeleteReportsExistence(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLLikeRepository()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM likes WHERE user_id = $1 AND message_id = $2")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.Delete(context.Background(), db, 1, 2)
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepository_Totals_Error(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLStatsRepository(db)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("db down"))

	_, err := repo.Totals(context.Background())
	assert.ErrorContains(t, err, "db down")
}
