package repository

import (
	"context"
	"testing"
	"time"

	"zestyy/internal/models"
	"zestyy/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

func setupStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewStore(db), db
}

func ptr[T any](v T) *T {
	return &v
}

func sendAt(t *testing.T, db *gorm.DB, from, to, content string, at time.Time) *models.Message {
	t.Helper()
	msg := &models.Message{SenderID: from, ReceiverID: to, Content: content, CreatedAt: at}
	require.NoError(t, db.Create(msg).Error)
	return msg
}

var ctx = context.Background()
