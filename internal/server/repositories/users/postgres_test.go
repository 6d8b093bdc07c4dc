package users

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbelozerov/eventkeeper/internal/common"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "alice", "alice@example.com", "$2a$10$hash", models.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at", "updated_at"}).
			AddRow("0190a8f0-0000-7000-8000-000000000001", now, now))

	user, err := repo.Create(context.Background(), &models.User{
		UserName:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "0190a8f0-0000-7000-8000-000000000001", user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConflict(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"})

	_, err = repo.Create(context.Background(), &models.User{
		UserName:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
	})
	assert.ErrorIs(t, err, common.ErrorConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsernameAndEmail(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()

	columns := []string{"user_id", "username", "email", "password", "user_role", "created_at", "updated_at"}

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT user_id, username, email, password, user_role, created_at, updated_at\s+FROM users`).
			WithArgs("alice", "alice@example.com").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("u1", "alice", "alice@example.com", "$2a$10$hash", models.RoleUser, now, now))

		user, err := repo.FindByUsernameAndEmail(context.Background(), "alice", "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "$2a$10$hash", user.PasswordHash)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT user_id, username, email, password, user_role, created_at, updated_at\s+FROM users`).
			WithArgs("alice", "other@example.com").
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.FindByUsernameAndEmail(context.Background(), "alice", "other@example.com")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
