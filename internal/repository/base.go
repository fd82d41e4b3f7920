// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// Store groups every repository over one database handle.
type Store struct {
	Users         UserRepository
	Posts         PostRepository
	Engagement    EngagementRepository
	Follows       FollowRepository
	Comments      CommentRepository
	Messages      MessageRepository
	Notifications NotificationRepository
	Marketplace   MarketplaceRepository

	db *gorm.DB
}

// NewStore wires all repositories to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db),
		Engagement:    NewEngagementRepository(db),
		Follows:       NewFollowRepository(db),
		Comments:      NewCommentRepository(db),
		Messages:      NewMessageRepository(db),
		Notifications: NewNotificationRepository(db),
		Marketplace:   NewMarketplaceRepository(db),
		db:            db,
	}
}

// InTx runs fn with a Store bound to a single transaction. A Store assembled
// by hand (no database handle) runs fn directly against itself.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// ClampLimit applies the default for non-positive limits and caps the rest.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505, SQLite "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint") || strings.Contains(msg, "23503")
}
