package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge in the social graph. A user never follows themselves
// and follows a given user at most once.
type Follow struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FollowerID  string    `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowingID string    `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
	Follower    *User     `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following   *User     `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// BeforeCreate assigns an ID when the caller left it empty.
func (f *Follow) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
