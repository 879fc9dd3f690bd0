package repositories

import (
	"errors"
	"testing"
	"time"

	"asso-cms/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var errQueryFailed = errors.New("pq: connection reset")

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestResetTokenReplace_RollsBackDeleteOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetTokenRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "password_reset_tokens"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "password_reset_tokens"`).
		WillReturnError(errQueryFailed)
	mock.ExpectRollback()

	err := repo.Replace(7, &models.PasswordResetToken{
		Token:     "deadbeef",
		UserID:    7,
		ExpiresAt: time.Now().Add(time.Hour),
	})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(),
		"delete and insert must share one transaction and roll back together")
}

func TestArticleGetList_CountFailurePropagates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "articles"`).
		WillReturnError(errQueryFailed)

	_, total, err := repo.GetList(models.ArticleListParams{Page: 1, Limit: 10}, true)

	assert.ErrorContains(t, err, "connection reset")
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetList_CountFailurePropagates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnError(errQueryFailed)

	_, total, err := repo.GetList(models.UserListParams{Page: 1, Limit: 10})

	assert.ErrorContains(t, err, "connection reset")
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
