// Package legacy moves data from the two pre-relational layouts into the
// current schema: the flat JSON document and the "tweet" SQL schema.
package legacy

import "time"

// Document is the flat-file store the first version of the app wrote to disk.
type Document struct {
	Users         []User         `json:"users"`
	Tweets        []Tweet        `json:"tweets"`
	Likes         []Engagement   `json:"likes"`
	Retweets      []Engagement   `json:"retweets"`
	Comments      []Comment      `json:"comments"`
	Follows       []Follow       `json:"follows"`
	Messages      []Message      `json:"messages"`
	Notifications []Notification `json:"notifications"`
}

type User struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Bio      string     `json:"bio"`
	Location string     `json:"location"`
	Website  string     `json:"website"`
	Image    string     `json:"image"`
	Verified bool       `json:"verified"`
	JoinedAt *time.Time `json:"joinedAt"`
}

type Tweet struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	ImageURL  *string    `json:"imageUrl"`
	AuthorID  string     `json:"authorId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Engagement covers both likes and retweets; they share a shape.
type Engagement struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TweetID   string    `json:"tweetId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	TweetID   string    `json:"tweetId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	ActorID   string    `json:"actorId"`
	TweetID   *string   `json:"tweetId"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
