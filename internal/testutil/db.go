// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"zestyy/internal/config"
	"zestyy/internal/database"
	"zestyy/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with every migration applied.
// It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := "zestyy-" + strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := database.OpenSQLite(database.SQLiteMemoryDSN(name))
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(context.Background(), db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// NewAutoDB is NewDB with the schema built by gorm AutoMigrate instead of
// the SQL migrations.
func NewAutoDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := "zestyy-auto-" + strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := database.OpenSQLite(database.SQLiteMemoryDSN(name))
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(context.Background(), db, &config.Config{DBSchemaMode: database.SchemaModeAuto, Env: "test"}))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser inserts a user whose name, username and email derive from handle.
func CreateUser(t testing.TB, db *gorm.DB, handle string) *models.User {
	t.Helper()

	handle = strings.ToLower(handle)
	user := &models.User{
		Name:     strings.ToUpper(handle[:1]) + handle[1:],
		Username: handle,
		Email:    handle + "@zestyy.test",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post by author with the given content.
func CreatePost(t testing.TB, db *gorm.DB, authorID, content string) *models.Post {
	t.Helper()

	post := &models.Post{Content: content, AuthorID: authorID}
	require.NoError(t, db.Create(post).Error)
	return post
}

// CreatePostAt inserts a post with a fixed creation time.
func CreatePostAt(t testing.TB, db *gorm.DB, authorID, content string, at time.Time) *models.Post {
	t.Helper()

	post := &models.Post{Content: content, AuthorID: authorID, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(post).Error)
	return post
}

// CountRows returns the number of rows in table matching where.
func CountRows(t testing.TB, db *gorm.DB, table, where string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := db.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error, fmt.Sprintf("count %s", table))
	return n
}
