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
)

func TestFollowRepository_Create_DuplicateEdge(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "followers"`)).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_followers_edge" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), "handle1one", "handle2two")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_Delete_MissingEdge(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "followers" WHERE follower_id = $1 AND followee_id = $2`)).
		WithArgs("handle1one", "handle2two").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "handle1one", "handle2two")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_GetFollowers_OrdersByEdge(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	rows := sqlmock.NewRows([]string{"id", "handle", "username"}).
		AddRow(7, "handle2two", "Second User").
		AddRow(3, "handle3tre", "Third User")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT users.* FROM "users" JOIN followers f ON users.handle = f.follower_id WHERE f.followee_id = $1 ORDER BY f.id ASC`)).
		WithArgs("handle1one").
		WillReturnRows(rows)

	users, err := repo.GetFollowers(context.Background(), "handle1one")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "handle2two", users[0].Handle)
	assert.Equal(t, "handle3tre", users[1].Handle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_StatusBatch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	followeeRows := sqlmock.NewRows([]string{"followee_id"}).AddRow("handle2two")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "followee_id" FROM "followers" WHERE follower_id = $1 AND followee_id IN ($2,$3)`)).
		WithArgs("viewer1234", "handle2two", "handle3tre").
		WillReturnRows(followeeRows)

	followerRows := sqlmock.NewRows([]string{"follower_id"}).AddRow("handle3tre")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "follower_id" FROM "followers" WHERE followee_id = $1 AND follower_id IN ($2,$3)`)).
		WithArgs("viewer1234", "handle2two", "handle3tre").
		WillReturnRows(followerRows)

	statuses, err := repo.StatusBatch(context.Background(), "viewer1234", []string{"handle2two", "handle3tre"})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, models.FollowStatus{IsFollower: true}, statuses["handle2two"])
	assert.Equal(t, models.FollowStatus{IsFollowee: true}, statuses["handle3tre"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_StatusBatch_EmptyInput(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewFollowRepository(db)

	statuses, err := repo.StatusBatch(context.Background(), "viewer1234", nil)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}
