package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"zestyy/internal/middleware"
	"zestyy/internal/models"

	"gorm.io/gorm"
)

// ImportJSON decodes a legacy document from r and writes it into db in one
// transaction. Nothing is written if any row fails.
func ImportJSON(ctx context.Context, db *gorm.DB, r io.Reader) (Stats, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode legacy document: %w", err)
	}

	now := time.Now().UTC()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return importDocument(tx, &doc, now)
	})
	if err != nil {
		return nil, err
	}
	return CollectStats(ctx, db)
}

func importDocument(tx *gorm.DB, doc *Document, now time.Time) error {
	users := make([]models.User, 0, len(doc.Users))
	for _, u := range doc.Users {
		joined := now
		if u.JoinedAt != nil {
			joined = *u.JoinedAt
		}
		users = append(users, models.User{
			ID:       u.ID,
			Name:     u.Name,
			Username: strings.ToLower(u.Username),
			Email:    strings.ToLower(u.Email),
			Bio:      u.Bio,
			Location: u.Location,
			Website:  u.Website,
			Image:    u.Image,
			Verified: u.Verified,
			JoinedAt: joined,
		})
	}

	posts := make([]models.Post, 0, len(doc.Tweets))
	for _, t := range doc.Tweets {
		updated := t.CreatedAt
		if t.UpdatedAt != nil {
			updated = *t.UpdatedAt
		}
		posts = append(posts, models.Post{
			ID:        t.ID,
			Content:   t.Content,
			ImageURL:  t.ImageURL,
			AuthorID:  t.AuthorID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: updated,
		})
	}

	likes := make([]models.Like, 0, len(doc.Likes))
	for _, l := range doc.Likes {
		likes = append(likes, models.Like{ID: l.ID, UserID: l.UserID, PostID: l.TweetID, CreatedAt: l.CreatedAt})
	}

	reposts := make([]models.Repost, 0, len(doc.Retweets))
	for _, rt := range doc.Retweets {
		reposts = append(reposts, models.Repost{ID: rt.ID, UserID: rt.UserID, PostID: rt.TweetID, CreatedAt: rt.CreatedAt})
	}

	comments := make([]models.Comment, 0, len(doc.Comments))
	for _, c := range doc.Comments {
		comments = append(comments, models.Comment{
			ID: c.ID, Content: c.Content, UserID: c.UserID, PostID: c.TweetID, CreatedAt: c.CreatedAt,
		})
	}

	follows := make([]models.Follow, 0, len(doc.Follows))
	for _, f := range doc.Follows {
		follows = append(follows, models.Follow{
			ID: f.ID, FollowerID: f.FollowerID, FollowingID: f.FollowingID, CreatedAt: f.CreatedAt,
		})
	}

	messages := make([]models.Message, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		messages = append(messages, models.Message{
			ID: m.ID, SenderID: m.SenderID, ReceiverID: m.ReceiverID,
			Content: m.Content, Read: m.Read, CreatedAt: m.CreatedAt,
		})
	}

	notifications := make([]models.Notification, 0, len(doc.Notifications))
	for _, n := range doc.Notifications {
		typ, ok := models.ParseNotificationType(n.Type)
		if !ok {
			return fmt.Errorf("notification %s: unknown type %q", n.ID, n.Type)
		}
		notifications = append(notifications, models.Notification{
			ID: n.ID, UserID: n.UserID, Type: typ, ActorID: n.ActorID,
			PostID: n.TweetID, Read: n.Read, CreatedAt: n.CreatedAt,
		})
	}

	return insertAll(tx, []batch{
		{"users", len(users), &users},
		{"posts", len(posts), &posts},
		{"likes", len(likes), &likes},
		{"reposts", len(reposts), &reposts},
		{"comments", len(comments), &comments},
		{"follows", len(follows), &follows},
		{"messages", len(messages), &messages},
		{"notifications", len(notifications), &notifications},
	})
}

type batch struct {
	table string
	n     int
	rows  interface{}
}

const insertBatchSize = 500

// insertAll writes the batches in order so parents exist before children.
func insertAll(tx *gorm.DB, batches []batch) error {
	for _, b := range batches {
		if b.n == 0 {
			continue
		}
		middleware.Logger.Info("Migrating rows", slog.String("table", b.table), slog.Int("count", b.n))
		if err := tx.CreateInBatches(b.rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert %s: %w", b.table, err)
		}
	}
	return nil
}
