package service

import (
	"strings"
	"testing"
	"time"

	"zestyy/internal/models"
	"zestyy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreateLengthBoundary(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	view, err := env.posts.Create(ctx, CreatePostInput{AuthorID: alice.ID, Content: strings.Repeat("a", 280)})
	require.NoError(t, err)
	assert.Len(t, view.Content, 280)
	assert.Equal(t, "alice", view.Author.Username)

	// characters, not bytes
	_, err = env.posts.Create(ctx, CreatePostInput{AuthorID: alice.ID, Content: strings.Repeat("é", 280)})
	require.NoError(t, err)

	_, err = env.posts.Create(ctx, CreatePostInput{AuthorID: alice.ID, Content: strings.Repeat("a", 281)})
	assertCode(t, err, models.CodeValidation)

	_, err = env.posts.Create(ctx, CreatePostInput{AuthorID: alice.ID, Content: "   "})
	assertCode(t, err, models.CodeValidation)
}

func TestPostService_CreateUnknownAuthor(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.posts.Create(ctx, CreatePostInput{AuthorID: "ghost", Content: "hi"})
	assertCode(t, err, models.CodeNotFound)
}

func TestPostService_FeedWithCountsAndViewerFlags(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	older := testutil.CreatePostAt(t, env.db, alice.ID, "older", base)
	newer := testutil.CreatePostAt(t, env.db, bob.ID, "newer", base.Add(time.Minute))

	_, err := env.engagement.ToggleLike(ctx, bob.ID, older.ID)
	require.NoError(t, err)
	_, err = env.engagement.ToggleRepost(ctx, bob.ID, older.ID)
	require.NoError(t, err)
	_, err = env.comments.Create(ctx, CreateCommentInput{UserID: bob.ID, PostID: older.ID, Content: "nice"})
	require.NoError(t, err)

	feed, err := env.posts.GetFeed(ctx, FeedInput{ViewerID: bob.ID})
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, newer.ID, feed[0].ID)
	assert.Equal(t, older.ID, feed[1].ID)
	assert.Equal(t, int64(1), feed[1].LikesCount)
	assert.Equal(t, int64(1), feed[1].RepostsCount)
	assert.Equal(t, int64(1), feed[1].CommentsCount)
	assert.True(t, feed[1].Liked)
	assert.True(t, feed[1].Reposted)

	asAlice, err := env.posts.GetFeed(ctx, FeedInput{ViewerID: alice.ID})
	require.NoError(t, err)
	assert.False(t, asAlice[1].Liked)

	page, err := env.posts.GetFeed(ctx, FeedInput{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	before := base.Add(30 * time.Second)
	earlier, err := env.posts.GetFeed(ctx, FeedInput{Before: &before})
	require.NoError(t, err)
	require.Len(t, earlier, 1)
	assert.Equal(t, older.ID, earlier[0].ID)

	byBob, err := env.posts.GetByAuthor(ctx, bob.ID, FeedInput{})
	require.NoError(t, err)
	require.Len(t, byBob, 1)
	assert.Equal(t, newer.ID, byBob[0].ID)
}

func TestPostService_GetByIDAndDelete(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "mine")

	_, err := env.engagement.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	_, err = env.comments.Create(ctx, CreateCommentInput{UserID: bob.ID, PostID: post.ID, Content: "reply"})
	require.NoError(t, err)

	view, err := env.posts.GetByID(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, view.Liked)

	err = env.posts.Delete(ctx, post.ID, bob.ID)
	assertCode(t, err, models.CodeForbidden)

	require.NoError(t, env.posts.Delete(ctx, post.ID, alice.ID))

	_, err = env.posts.GetByID(ctx, post.ID, "")
	assertCode(t, err, models.CodeNotFound)
	assert.Zero(t, testutil.CountRows(t, env.db, "likes", "post_id = ?", post.ID))
	assert.Zero(t, testutil.CountRows(t, env.db, "comments", "post_id = ?", post.ID))
	assert.Zero(t, testutil.CountRows(t, env.db, "notifications", "post_id = ?", post.ID))

	err = env.posts.Delete(ctx, post.ID, alice.ID)
	assertCode(t, err, models.CodeNotFound)
}
