package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a reply on a post. Comments cannot be edited or deleted.
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    string    `gorm:"not null" json:"user_id"`
	PostID    string    `gorm:"not null;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns an ID when the caller left it empty.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentView is a comment joined with its author.
type CommentView struct {
	ID           string      `json:"id"`
	Content      string      `json:"content"`
	UserID       string      `json:"user_id"`
	PostID       string      `json:"post_id"`
	CreatedAt    time.Time   `json:"created_at"`
	UserName     string      `json:"-"`
	UserUsername string      `json:"-"`
	UserImage    string      `json:"-"`
	UserVerified bool        `json:"-"`
	User         UserSummary `gorm:"-" json:"user"`
}

// FillUser copies the joined author columns into User.
func (v *CommentView) FillUser() {
	v.User = UserSummary{
		ID:       v.UserID,
		Name:     v.UserName,
		Username: v.UserUsername,
		Image:    v.UserImage,
		Verified: v.UserVerified,
	}
}
