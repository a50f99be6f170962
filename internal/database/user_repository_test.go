package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/smarttransit/bus-booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "full_name", "email", "password_hash", "phone", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PostgresDB{DB: sqlx.NewDb(db, "postgres")}, mock
}

func TestCreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		user := &models.User{FullName: "Asha Rao", Email: "asha@example.com", PasswordHash: "hash", Phone: "9876543210"}

		mock.ExpectQuery(`INSERT INTO users \(full_name, email, password_hash, phone\)`).
			WithArgs("Asha Rao", "asha@example.com", "hash", "9876543210").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

		require.NoError(t, repo.CreateUser(ctx, user))
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, now, user.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreateUser(ctx, &models.User{Email: "asha@example.com"})
		assert.ErrorIs(t, err, ErrEmailExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.CreateUser(ctx, &models.User{Email: "asha@example.com"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmailExists)
		assert.Contains(t, err.Error(), "failed to create user")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEmailExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
		WithArgs("asha@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("asha@example.com").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(int64(42), "Asha Rao", "asha@example.com", "hash", "9876543210", now, now))

		user, err := repo.GetUserByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	user, err := repo.GetUserByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	name := "Asha R"

	t.Run("Partial Patch", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`UPDATE users\s+SET full_name = COALESCE\(\$2, full_name\)`).
			WithArgs(int64(42), name, nil).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(int64(42), name, "asha@example.com", "hash", "9876543210", now, now))

		user, err := repo.UpdateProfile(ctx, 42, &name, nil)
		require.NoError(t, err)
		assert.Equal(t, "Asha R", user.FullName)
		assert.Equal(t, "9876543210", user.Phone)
	})

	t.Run("Missing User", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE users`).
			WithArgs(int64(99), name, nil).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.UpdateProfile(ctx, 99, &name, nil)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
