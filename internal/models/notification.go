package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType names the action that produced a notification.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationRepost  NotificationType = "repost"
	NotificationFollow  NotificationType = "follow"
	NotificationComment NotificationType = "comment"
)

// ParseNotificationType accepts the current types plus the legacy "retweet".
func ParseNotificationType(s string) (NotificationType, bool) {
	switch NotificationType(s) {
	case NotificationLike, NotificationRepost, NotificationFollow, NotificationComment:
		return NotificationType(s), true
	case "retweet":
		return NotificationRepost, true
	}
	return "", false
}

// Content is the human readable text shown next to the actor.
func (t NotificationType) Content() string {
	switch t {
	case NotificationLike:
		return "liked your Post"
	case NotificationRepost:
		return "reposted your Post"
	case NotificationFollow:
		return "followed you"
	case NotificationComment:
		return "replied to your Post"
	default:
		return "interacted with your content"
	}
}

// Notification tells UserID that ActorID did something. At most one row exists
// per (user, type, actor, post).
type Notification struct {
	ID        string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string           `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(16);not null" json:"type"`
	ActorID   string           `gorm:"not null" json:"actor_id"`
	PostID    *string          `json:"post_id,omitempty"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`
	User      *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Actor     *User            `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE" json:"-"`
	Post      *Post            `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns an ID when the caller left it empty.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// NotificationView is a notification resolved for display.
type NotificationView struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	Type          NotificationType `json:"type"`
	ActorID       string           `json:"actor_id"`
	PostID        *string          `json:"post_id,omitempty"`
	Read          bool             `json:"read"`
	CreatedAt     time.Time        `json:"created_at"`
	ActorName     string           `json:"-"`
	ActorUsername string           `json:"-"`
	ActorImage    string           `json:"-"`
	ActorVerified bool             `json:"-"`
	PostContent   *string          `json:"post_content,omitempty"`
	Content       string           `gorm:"-" json:"content"`
	Actor         UserSummary      `gorm:"-" json:"actor"`
}

// Resolve derives Content from Type and copies the joined actor columns into Actor.
func (v *NotificationView) Resolve() {
	v.Content = v.Type.Content()
	v.Actor = UserSummary{
		ID:       v.ActorID,
		Name:     v.ActorName,
		Username: v.ActorUsername,
		Image:    v.ActorImage,
		Verified: v.ActorVerified,
	}
}
