package service

import (
	"errors"
	"testing"

	"zestyy/internal/models"
	"zestyy/internal/repository"
	"zestyy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Notify(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "hello")

	t.Run("self is a no-op", func(t *testing.T) {
		n, err := env.notifications.Notify(ctx, NotifyInput{RecipientID: alice.ID, Type: models.NotificationLike, ActorID: alice.ID, PostID: &post.ID})
		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("creates unread row", func(t *testing.T) {
		n, err := env.notifications.Notify(ctx, NotifyInput{RecipientID: alice.ID, Type: models.NotificationLike, ActorID: bob.ID, PostID: &post.ID})
		require.NoError(t, err)
		require.NotNil(t, n)
		assert.False(t, n.Read)
	})

	t.Run("duplicate stays suppressed after being read", func(t *testing.T) {
		_, err := env.notifications.MarkAsRead(ctx, alice.ID, nil)
		require.NoError(t, err)

		n, err := env.notifications.Notify(ctx, NotifyInput{RecipientID: alice.ID, Type: models.NotificationLike, ActorID: bob.ID, PostID: &post.ID})
		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("different type is a different tuple", func(t *testing.T) {
		n, err := env.notifications.Notify(ctx, NotifyInput{RecipientID: alice.ID, Type: models.NotificationRepost, ActorID: bob.ID, PostID: &post.ID})
		require.NoError(t, err)
		assert.NotNil(t, n)
	})

	assert.Equal(t, int64(2), testutil.CountRows(t, env.db, "notifications", "user_id = ?", alice.ID))
	assert.Len(t, env.publisher.Events(), 2)
}

func TestNotificationService_GetByUserAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	post := env.post(t, alice.ID, "hello world")

	_, err := env.engagement.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	_, err = env.follows.Toggle(ctx, carol.ID, alice.ID)
	require.NoError(t, err)

	list, err := env.notifications.GetByUser(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byType := map[models.NotificationType]models.NotificationView{}
	for _, n := range list {
		byType[n.Type] = n
	}
	like := byType[models.NotificationLike]
	assert.Equal(t, "liked your Post", like.Content)
	assert.Equal(t, "bob", like.Actor.Username)
	require.NotNil(t, like.PostContent)
	assert.Equal(t, "hello world", *like.PostContent)

	follow := byType[models.NotificationFollow]
	assert.Equal(t, "followed you", follow.Content)
	assert.Nil(t, follow.PostContent)

	count, err := env.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// another user's notification cannot be marked
	n, err := env.notifications.MarkAsRead(ctx, bob.ID, &like.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = env.notifications.MarkAsRead(ctx, alice.ID, &like.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err = env.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = env.notifications.MarkAsRead(ctx, alice.ID, nil)
	require.NoError(t, err)
	count, err = env.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_PublishFailureDoesNotFailAction(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("redis down")
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "hello")

	res, err := env.engagement.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, "notifications", ""))
}

func TestNotificationService_NilPublisher(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	svc := NewNotificationService(store, nil)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	n, err := svc.Notify(ctx, NotifyInput{RecipientID: alice.ID, Type: models.NotificationFollow, ActorID: bob.ID})
	require.NoError(t, err)
	assert.NotNil(t, n)
}
