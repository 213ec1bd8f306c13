package store_test

import (
	"context"
	"testing"

	apperrors "noto/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserExists(t *testing.T) {
	mock, s := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE username = \$1 OR email = \$2\)`).
		WithArgs("alice", "alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := s.UserExists(context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateUser(t *testing.T) {
	mock, s := newMock(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "alice", "alice@example.com", "hash").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	u, err := s.CreateUser(context.Background(), "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, created, u.CreatedAt)
	assert.Equal(t, []int64{}, u.LastViewedTasks)
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	mock, s := newMock(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "alice", "alice@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := s.CreateUser(context.Background(), "alice", "alice@example.com", "hash")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestGetUserByLogin(t *testing.T) {
	mock, s := newMock(t)

	rows := pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "last_viewed_tasks", "created_at"}).
		AddRow(userID, "alice", "alice@example.com", "hash", []int64{4, 2}, created)
	mock.ExpectQuery(`FROM users\s+WHERE username = \$1 OR email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	u, err := s.GetUserByLogin(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, []int64{4, 2}, u.LastViewedTasks)
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	mock, s := newMock(t)

	mock.ExpectQuery("FROM users").WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

	_, err := s.GetUserByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTouchLastLogin(t *testing.T) {
	mock, s := newMock(t)

	mock.ExpectExec(`UPDATE users SET last_login = now\(\) WHERE id = \$1`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, s.TouchLastLogin(context.Background(), userID))
}
