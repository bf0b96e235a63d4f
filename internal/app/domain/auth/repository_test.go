package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/models"
)

func TestPostgresRepoCreateUser(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresRepo(mockPool, zap.NewNop())

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "trip@example.com", "hashed", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		user, err := repo.CreateUser(context.Background(), "trip@example.com", "hashed")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "trip@example.com", user.Email)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockPool.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "dup@example.com", "hashed", pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: uniqueViolation})

		_, err := repo.CreateUser(context.Background(), "dup@example.com", "hashed")
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepoGetUserByEmail(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresRepo(mockPool, zap.NewNop())
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Found", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("user-1", "trip@example.com", "hashed", created)
		mockPool.ExpectQuery("SELECT id, email, password_hash, created_at FROM users WHERE email").
			WithArgs("trip@example.com").
			WillReturnRows(rows)

		user, err := repo.GetUserByEmail(context.Background(), "trip@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, created, user.CreatedAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery("SELECT id, email, password_hash, created_at FROM users WHERE email").
			WithArgs("ghost@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

		_, err := repo.GetUserByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	require.NoError(t, mockPool.ExpectationsWereMet())
}
