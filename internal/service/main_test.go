package service

import (
	"context"
	"sync"
	"testing"

	"zestyy/internal/models"
	"zestyy/internal/repository"
	"zestyy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ctx = context.Background()

type publishedEvent struct {
	UserID string
	Type   string
	Data   interface{}
}

// recordingPublisher captures realtime events instead of sending them.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, userID, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{UserID: userID, Type: eventType, Data: data})
	return p.err
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type testEnv struct {
	db            *gorm.DB
	store         *repository.Store
	publisher     *recordingPublisher
	users         *UserService
	posts         *PostService
	engagement    *EngagementService
	follows       *FollowService
	comments      *CommentService
	notifications *NotificationService
	messages      *MessageService
	marketplace   *MarketplaceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	pub := &recordingPublisher{}
	notifications := NewNotificationService(store, pub)

	users := NewUserService(store)
	users.bcryptCost = bcrypt.MinCost

	return &testEnv{
		db:            db,
		store:         store,
		publisher:     pub,
		users:         users,
		posts:         NewPostService(store),
		engagement:    NewEngagementService(store, notifications),
		follows:       NewFollowService(store, notifications),
		comments:      NewCommentService(store, notifications),
		notifications: notifications,
		messages:      NewMessageService(store, pub),
		marketplace:   NewMarketplaceService(store),
	}
}

func (e *testEnv) user(t *testing.T, handle string) *models.User {
	t.Helper()
	return testutil.CreateUser(t, e.db, handle)
}

func (e *testEnv) post(t *testing.T, authorID, content string) *models.Post {
	t.Helper()
	return testutil.CreatePost(t, e.db, authorID, content)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, models.ErrorCode(err), "unexpected error: %v", err)
}

func ptr[T any](v T) *T {
	return &v
}
