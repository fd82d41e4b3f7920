package repository

import (
	"testing"
	"time"

	"zestyy/internal/models"
	"zestyy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPostNewestFirst(t *testing.T) {
	store, db := setupStore(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice.ID, "hello")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := &models.Comment{Content: "first", UserID: bob.ID, PostID: post.ID, CreatedAt: base}
	second := &models.Comment{Content: "second", UserID: alice.ID, PostID: post.ID, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, store.Comments.Create(ctx, first))
	require.NoError(t, store.Comments.Create(ctx, second))

	comments, err := store.Comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "alice", comments[0].User.Username)
	assert.Equal(t, "bob", comments[1].User.Username)

	view, err := store.Comments.GetView(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, view.User.ID)
}

func TestCommentRepository_CreateUnknownPost(t *testing.T) {
	store, db := setupStore(t)
	alice := testutil.CreateUser(t, db, "alice")

	err := store.Comments.Create(ctx, &models.Comment{Content: "hi", UserID: alice.ID, PostID: "ghost"})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestStore_InTxRollsBack(t *testing.T) {
	store, db := setupStore(t)
	alice := testutil.CreateUser(t, db, "alice")

	err := store.InTx(ctx, func(tx *Store) error {
		if err := tx.Posts.Create(ctx, &models.Post{Content: "doomed", AuthorID: alice.ID}); err != nil {
			return err
		}
		return models.NewValidationError("abort")
	})
	assert.True(t, models.IsCode(err, models.CodeValidation))
	assert.Zero(t, testutil.CountRows(t, db, "posts", ""))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, ClampLimit(0))
	assert.Equal(t, DefaultListLimit, ClampLimit(-4))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxListLimit, ClampLimit(1000))
}
