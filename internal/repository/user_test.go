package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"witter/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_FindByHandle(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		handle       string
		mockBehavior func()
		expectUser   bool
	}{
		{
			name:   "Success",
			handle: "handle1234",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "handle", "username", "password", "email"}).
					AddRow(1, "handle1234", "Some Person", "hashed", "person@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE handle = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("handle1234", 1).
					WillReturnRows(rows)
			},
			expectUser: true,
		},
		{
			name:   "Unknown handle returns nil without error",
			handle: "nosuchuser",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE handle = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("nosuchuser", 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectUser: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.FindByHandle(ctx, tt.handle)
			require.NoError(t, err)

			if tt.expectUser {
				require.NotNil(t, user)
				assert.Equal(t, "handle1234", user.Handle)
				assert.Equal(t, "hashed", user.Password, "auth path needs the stored hash")
			} else {
				assert.Nil(t, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_FindByHandle_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE handle = $1`)).
		WithArgs("handle1234", 1).
		WillReturnError(errors.New("connection timeout"))

	user, err := repo.FindByHandle(context.Background(), "handle1234")
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_HandleExists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE handle = $1`)).
		WithArgs("handle1234").
		WillReturnRows(rows)

	exists, err := repo.HandleExists(context.Background(), "handle1234")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_EmailOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("owned email returns handle", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "handle", "email"}).
			AddRow(1, "handle1234", "person@example.com")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
			WithArgs("person@example.com", 1).
			WillReturnRows(rows)

		owner, err := repo.EmailOwner(ctx, "person@example.com")
		require.NoError(t, err)
		assert.Equal(t, "handle1234", owner)
	})

	t.Run("unused email returns empty", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
			WithArgs("unused@example.com", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		owner, err := repo.EmailOwner(ctx, "unused@example.com")
		require.NoError(t, err)
		assert.Empty(t, owner)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_users_handle" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{
		Handle:   "handle1234",
		Username: "Some Person",
		Password: "hashed",
		Email:    "person@example.com",
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("deletes existing row", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE handle = $1`)).
			WithArgs("handle1234").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(ctx, "handle1234"))
	})

	t.Run("unknown handle is not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE handle = $1`)).
			WithArgs("nosuchuser").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Delete(ctx, "nosuchuser")
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SearchByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "handle", "username"}).
		AddRow(1, "handle1one", "Some Person").
		AddRow(2, "handle2two", "Some Other Person")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(username) LIKE $1 ORDER BY id ASC`)).
		WithArgs("%some%").
		WillReturnRows(rows)

	users, err := repo.SearchByUsername(context.Background(), "Some")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "handle1one", users[0].Handle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.True(t, isUniqueConstraintError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)")))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: followers.follower_id, followers.followee_id")))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
	assert.False(t, isUniqueConstraintError(nil))
}
