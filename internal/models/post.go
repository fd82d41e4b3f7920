package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxPostLength is the largest post body accepted, counted in characters.
const MaxPostLength = 280

// Post is a short text update. Deleting a post removes its likes, reposts,
// comments and the notifications that point at it.
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  *string   `json:"image_url,omitempty"`
	AuthorID  string    `gorm:"not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate assigns an ID when the caller left it empty.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostView is a feed entry: the post, its author summary and live engagement counts.
type PostView struct {
	ID             string      `json:"id"`
	Content        string      `json:"content"`
	ImageURL       *string     `json:"image_url,omitempty"`
	AuthorID       string      `json:"author_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	AuthorName     string      `json:"-"`
	AuthorUsername string      `json:"-"`
	AuthorImage    string      `json:"-"`
	AuthorVerified bool        `json:"-"`
	LikesCount     int64       `json:"likes_count"`
	RepostsCount   int64       `json:"reposts_count"`
	CommentsCount  int64       `json:"comments_count"`
	Liked          bool        `json:"liked"`
	Reposted       bool        `json:"reposted"`
	Author         UserSummary `gorm:"-" json:"author"`
}

// FillAuthor copies the joined author columns into Author.
func (v *PostView) FillAuthor() {
	v.Author = UserSummary{
		ID:       v.AuthorID,
		Name:     v.AuthorName,
		Username: v.AuthorUsername,
		Image:    v.AuthorImage,
		Verified: v.AuthorVerified,
	}
}
