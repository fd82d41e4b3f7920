// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered Zestyy account. Email and username are stored lowercase
// and cannot change after registration.
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	Website      string    `json:"website"`
	Image        string    `json:"image"`
	Verified     bool      `gorm:"not null;default:false" json:"verified"`
	Degree       *string   `json:"degree,omitempty"`
	Branch       *string   `json:"branch,omitempty"`
	Section      *int      `json:"section,omitempty"`
	Hostel       *string   `json:"hostel,omitempty"`
	JoinedAt     time.Time `gorm:"not null" json:"joined_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an ID and join time when the caller left them empty.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.JoinedAt.IsZero() {
		u.JoinedAt = tx.NowFunc()
	}
	return nil
}

// Summary returns the public profile fragment attached to posts, comments and notifications.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Image:    u.Image,
		Verified: u.Verified,
	}
}

// UserSummary is the public part of a profile.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image"`
	Verified bool   `json:"verified"`
}

// UserStats holds live aggregate counts for a profile.
type UserStats struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// UserProfile is a user with stats and the viewer's follow state.
type UserProfile struct {
	User        *User     `json:"user"`
	Stats       UserStats `json:"stats"`
	IsFollowing bool      `json:"is_following"`
}

// AcademicFilter narrows a user search; nil fields match everything.
type AcademicFilter struct {
	Degree  *string
	Branch  *string
	Section *int
	Hostel  *string
}
