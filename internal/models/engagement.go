package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    string    `gorm:"not null;uniqueIndex:idx_likes_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}

// BeforeCreate assigns an ID when the caller left it empty.
func (l *Like) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Repost is a user re-sharing a post. One per (user, post).
type Repost struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_reposts_user_post" json:"user_id"`
	PostID    string    `gorm:"not null;uniqueIndex:idx_reposts_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Repost) TableName() string {
	return "reposts"
}

// BeforeCreate assigns an ID when the caller left it empty.
func (r *Repost) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ToggleResult reports the state a toggle left behind.
type ToggleResult struct {
	Active bool `json:"active"`
}
