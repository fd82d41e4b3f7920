package repository

import (
	"testing"
	"time"

	"zestyy/internal/models"
	"zestyy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_ConversationsOnePerPartner(t *testing.T) {
	store, db := setupStore(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sendAt(t, db, alice.ID, bob.ID, "hi bob", t1)
	sendAt(t, db, bob.ID, alice.ID, "hey alice", t1.Add(time.Minute))
	sendAt(t, db, carol.ID, alice.ID, "yo", t1.Add(2*time.Minute))

	convs, err := store.Messages.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, carol.ID, convs[0].ID)
	assert.Equal(t, "yo", convs[0].LastMessage)
	assert.True(t, convs[0].Unread)

	assert.Equal(t, bob.ID, convs[1].ID)
	assert.Equal(t, "bob", convs[1].User.Username)
	assert.Equal(t, "hey alice", convs[1].LastMessage)
	assert.True(t, convs[1].LastMessageTime.Equal(t1.Add(time.Minute)))
	assert.True(t, convs[1].Unread)

	bobView, err := store.Messages.Conversations(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobView, 1)
	assert.Equal(t, alice.ID, bobView[0].ID)
	assert.Equal(t, "hey alice", bobView[0].LastMessage)
	// alice's first message was never read by bob.
	assert.True(t, bobView[0].Unread)
}

func TestMessageRepository_BetweenAndMarkRead(t *testing.T) {
	store, db := setupStore(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sendAt(t, db, bob.ID, alice.ID, "one", t1)
	sendAt(t, db, alice.ID, bob.ID, "two", t1.Add(time.Second))
	sendAt(t, db, bob.ID, alice.ID, "three", t1.Add(2*time.Second))

	msgs, err := store.Messages.Between(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{msgs[0].Content, msgs[1].Content, msgs[2].Content})

	n, err := store.Messages.MarkRead(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Zero(t, testutil.CountRows(t, db, "messages", "receiver_id = ? AND read = ?", alice.ID, false))
	// alice's own message to bob is untouched.
	assert.Equal(t, int64(1), testutil.CountRows(t, db, "messages", "receiver_id = ? AND read = ?", bob.ID, false))

	convs, err := store.Messages.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.False(t, convs[0].Unread)

	require.NoError(t, store.Messages.Create(ctx, &models.Message{SenderID: bob.ID, ReceiverID: alice.ID, Content: "four"}))
	convs, err = store.Messages.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, convs[0].Unread)
	assert.Equal(t, "four", convs[0].LastMessage)
}

func TestMessageRepository_NoConversations(t *testing.T) {
	store, db := setupStore(t)
	alice := testutil.CreateUser(t, db, "alice")

	convs, err := store.Messages.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, convs)
	assert.NotNil(t, convs)
}

func TestMessageRepository_CreateUnknownReceiver(t *testing.T) {
	store, db := setupStore(t)
	alice := testutil.CreateUser(t, db, "alice")

	err := store.Messages.Create(ctx, &models.Message{SenderID: alice.ID, ReceiverID: "ghost", Content: "hello?"})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
