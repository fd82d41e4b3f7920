package legacy

import (
	"context"
	"fmt"
	"time"

	"zestyy/internal/models"

	"gorm.io/gorm"
)

// Row shapes of the tweet-era schema. Nullable text columns scan into pointers.
type tweetUserRow struct {
	ID       string
	Name     string
	Username string
	Email    string
	Bio      *string
	Location *string
	Website  *string
	Image    *string
	Verified bool
	JoinedAt time.Time
}

type tweetRow struct {
	ID        string
	Content   string
	ImageURL  *string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type tweetEngagementRow struct {
	ID        string
	UserID    string
	TweetID   string
	CreatedAt time.Time
}

type tweetCommentRow struct {
	ID        string
	Content   string
	UserID    string
	TweetID   string
	CreatedAt time.Time
}

type tweetNotificationRow struct {
	ID        string
	UserID    string
	Type      string
	ActorID   string
	TweetID   *string
	Read      bool
	CreatedAt time.Time
}

// clearOrder deletes children before parents.
var clearOrder = []string{
	"notifications", "messages", "follows", "comments",
	"reposts", "likes", "posts", "marketplace", "users",
}

// ConvertTweetSchema copies a tweet-era database into dst's post schema.
// dst is cleared first; the copy is a single transaction and rolls back on
// any error. Academic profile columns are left NULL.
func ConvertTweetSchema(ctx context.Context, src, dst *gorm.DB) (Stats, error) {
	src = src.WithContext(ctx)

	var (
		users         []tweetUserRow
		tweets        []tweetRow
		likes         []tweetEngagementRow
		retweets      []tweetEngagementRow
		comments      []tweetCommentRow
		follows       []models.Follow
		messages      []models.Message
		notifications []tweetNotificationRow
	)
	reads := []struct {
		query string
		dest  interface{}
	}{
		{"SELECT id, name, username, email, bio, location, website, image, verified, joined_at FROM users", &users},
		{"SELECT id, content, image_url, author_id, created_at, updated_at FROM tweets", &tweets},
		{"SELECT id, user_id, tweet_id, created_at FROM likes", &likes},
		{"SELECT id, user_id, tweet_id, created_at FROM retweets", &retweets},
		{"SELECT id, content, user_id, tweet_id, created_at FROM comments", &comments},
		{"SELECT id, follower_id, following_id, created_at FROM follows", &follows},
		{"SELECT id, sender_id, receiver_id, content, read, created_at FROM messages", &messages},
		{"SELECT id, user_id, type, actor_id, tweet_id, read, created_at FROM notifications", &notifications},
	}
	for _, r := range reads {
		if err := src.Raw(r.query).Scan(r.dest).Error; err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
	}

	outUsers := make([]models.User, 0, len(users))
	for _, u := range users {
		outUsers = append(outUsers, models.User{
			ID:       u.ID,
			Name:     u.Name,
			Username: u.Username,
			Email:    u.Email,
			Bio:      deref(u.Bio),
			Location: deref(u.Location),
			Website:  deref(u.Website),
			Image:    deref(u.Image),
			Verified: u.Verified,
			JoinedAt: u.JoinedAt,
		})
	}
	posts := make([]models.Post, 0, len(tweets))
	for _, t := range tweets {
		posts = append(posts, models.Post{
			ID: t.ID, Content: t.Content, ImageURL: t.ImageURL, AuthorID: t.AuthorID,
			CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
		})
	}
	outLikes := make([]models.Like, 0, len(likes))
	for _, l := range likes {
		outLikes = append(outLikes, models.Like{ID: l.ID, UserID: l.UserID, PostID: l.TweetID, CreatedAt: l.CreatedAt})
	}
	reposts := make([]models.Repost, 0, len(retweets))
	for _, rt := range retweets {
		reposts = append(reposts, models.Repost{ID: rt.ID, UserID: rt.UserID, PostID: rt.TweetID, CreatedAt: rt.CreatedAt})
	}
	outComments := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		outComments = append(outComments, models.Comment{
			ID: c.ID, Content: c.Content, UserID: c.UserID, PostID: c.TweetID, CreatedAt: c.CreatedAt,
		})
	}
	outNotifications := make([]models.Notification, 0, len(notifications))
	for _, n := range notifications {
		typ, ok := models.ParseNotificationType(n.Type)
		if !ok {
			return nil, fmt.Errorf("notification %s: unknown type %q", n.ID, n.Type)
		}
		outNotifications = append(outNotifications, models.Notification{
			ID: n.ID, UserID: n.UserID, Type: typ, ActorID: n.ActorID,
			PostID: n.TweetID, Read: n.Read, CreatedAt: n.CreatedAt,
		})
	}

	err := dst.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range clearOrder {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return insertAll(tx, []batch{
			{"users", len(outUsers), &outUsers},
			{"posts", len(posts), &posts},
			{"likes", len(outLikes), &outLikes},
			{"reposts", len(reposts), &reposts},
			{"comments", len(outComments), &outComments},
			{"follows", len(follows), &follows},
			{"messages", len(messages), &messages},
			{"notifications", len(outNotifications), &outNotifications},
		})
	})
	if err != nil {
		return nil, err
	}
	return CollectStats(ctx, dst)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
