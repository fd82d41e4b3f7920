// Package seed populates a database with demo accounts and content for local
// development. Nothing here runs in production.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"zestyy/internal/middleware"
	"zestyy/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "Zestyy-Demo-2024!"

// Options controls how much random content is generated on top of the demo accounts.
type Options struct {
	ExtraUsers   int
	PostsPerUser int
	Items        int
	Clean        bool
	// SkipBcrypt stores a low-cost hash; only meant for tests.
	SkipBcrypt bool
	// Seed makes gofakeit output reproducible when non-zero.
	Seed int64
}

// DefaultOptions mirrors what `cmd/seed` uses without flags.
func DefaultOptions() Options {
	return Options{ExtraUsers: 10, PostsPerUser: 3, Items: 8, Clean: true}
}

// Result lists what was created.
type Result struct {
	Users []models.User
	Posts []models.Post
	Items []models.MarketplaceItem
}

type demoAccount struct {
	name, username, email, bio, location, website string
	verified                                       bool
}

var demoAccounts = []demoAccount{
	{
		name: "Demo User", username: "demo", email: "demo@zestyy.dev",
		bio:      "This is a demo account for Zestyy 🚀",
		location: "San Francisco, CA", website: "https://example.com", verified: true,
	},
	{
		name: "John Doe", username: "johndoe", email: "john@example.com",
		bio:      "Software developer passionate about campus life 💻",
		location: "New York, NY",
	},
	{
		name: "Jane Smith", username: "janesmith", email: "jane@example.com",
		bio:      "UI/UX Designer | Creating beautiful digital experiences ✨",
		location: "Los Angeles, CA", verified: true,
	},
}

var demoPosts = []struct {
	author  int
	content string
	ago     time.Duration
}{
	{0, "Welcome to Zestyy! Likes, reposts, comments and follows all work. 🎉", 3 * time.Hour},
	{0, "Sign up and start posting right away. 🔐", 2 * time.Hour},
	{0, "Check out the marketplace for second-hand textbooks and more. 🛒", time.Hour},
	{1, "Just discovered Zestyy and everything works smoothly. 👏", 4 * time.Hour},
	{2, "Love the attention to detail in the design. 🎨", 5 * time.Hour},
	{1, "Working on some exciting new features this week. 🚀", 30 * time.Minute},
}

var categories = []string{"books", "electronics", "furniture", "clothing", "sports", "other"}

var conditions = []models.ItemCondition{
	models.ConditionNew, models.ConditionLikeNew, models.ConditionGood, models.ConditionFair, models.ConditionPoor,
}

// Seeder writes demo data through a single transaction.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	return &Seeder{db: db, opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// Run seeds the demo accounts, their posts and engagement, then random extras.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	hash, err := s.passwordHash()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.opts.Clean {
			if err := ClearAll(tx); err != nil {
				return err
			}
		}
		if err := s.createUsers(tx, hash, res); err != nil {
			return err
		}
		if err := s.createPosts(tx, res); err != nil {
			return err
		}
		if err := s.createEngagement(tx, res); err != nil {
			return err
		}
		return s.createItems(tx, res)
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.Info("Seed complete",
		slog.Int("users", len(res.Users)),
		slog.Int("posts", len(res.Posts)),
		slog.Int("items", len(res.Items)))
	return res, nil
}

// ClearAll deletes every row, children first.
func ClearAll(db *gorm.DB) error {
	tables := []string{
		"notifications", "messages", "follows", "comments",
		"reposts", "likes", "marketplace", "posts", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) passwordHash() (string, error) {
	cost := bcrypt.DefaultCost
	if s.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash demo password: %w", err)
	}
	return string(hash), nil
}

func (s *Seeder) createUsers(tx *gorm.DB, hash string, res *Result) error {
	now := time.Now().UTC()
	for _, a := range demoAccounts {
		res.Users = append(res.Users, models.User{
			Name:         a.name,
			Username:     a.username,
			Email:        a.email,
			PasswordHash: hash,
			Bio:          a.bio,
			Location:     a.location,
			Website:      a.website,
			Verified:     a.verified,
			JoinedAt:     now,
		})
	}

	taken := map[string]bool{}
	for _, u := range res.Users {
		taken[u.Username] = true
	}
	for i := 0; i < s.opts.ExtraUsers; i++ {
		person := gofakeit.Person()
		username := s.uniqueUsername(person.FirstName, person.LastName, taken)
		section := gofakeit.Number(1, 4)
		res.Users = append(res.Users, models.User{
			Name:         person.FirstName + " " + person.LastName,
			Username:     username,
			Email:        username + "@zestyy.dev",
			PasswordHash: hash,
			Bio:          gofakeit.Sentence(10),
			Location:     gofakeit.City(),
			Image:        fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			Degree:       strPtr(gofakeit.RandomString([]string{"BTECH", "MTECH", "BSC"})),
			Branch:       strPtr(gofakeit.RandomString([]string{"CSE", "ECE", "ME", "CE"})),
			Section:      &section,
			Hostel:       strPtr(gofakeit.RandomString([]string{"Aravali", "Nilgiri", "Shivalik"})),
			JoinedAt:     now.Add(-time.Duration(s.rng.Intn(365*24)) * time.Hour),
		})
	}

	if err := tx.Create(&res.Users).Error; err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	return nil
}

func (s *Seeder) uniqueUsername(first, last string, taken map[string]bool) string {
	base := strings.ToLower(first + "_" + last)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, base)
	if len(base) > 24 {
		base = base[:24]
	}
	name := base
	for taken[name] || len(name) < 3 {
		name = fmt.Sprintf("%s%d", base, gofakeit.Number(10, 9999))
	}
	taken[name] = true
	return name
}

func (s *Seeder) createPosts(tx *gorm.DB, res *Result) error {
	now := time.Now().UTC()
	for _, p := range demoPosts {
		at := now.Add(-p.ago)
		res.Posts = append(res.Posts, models.Post{
			Content:   p.content,
			AuthorID:  res.Users[p.author].ID,
			CreatedAt: at,
			UpdatedAt: at,
		})
	}
	for _, u := range res.Users[len(demoAccounts):] {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			at := now.Add(-time.Duration(s.rng.Intn(30*24*60)) * time.Minute)
			post := models.Post{
				Content:   truncate(gofakeit.Sentence(s.rng.Intn(20)+5), 280),
				AuthorID:  u.ID,
				CreatedAt: at,
				UpdatedAt: at,
			}
			if s.rng.Intn(4) == 0 {
				post.ImageURL = strPtr(fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()))
			}
			res.Posts = append(res.Posts, post)
		}
	}
	if len(res.Posts) == 0 {
		return nil
	}
	if err := tx.Create(&res.Posts).Error; err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	return nil
}

// createEngagement wires the demo accounts together the same way every run and
// sprinkles random likes and follows for the rest.
func (s *Seeder) createEngagement(tx *gorm.DB, res *Result) error {
	u := res.Users
	p := res.Posts

	likes := []models.Like{
		{UserID: u[1].ID, PostID: p[0].ID},
		{UserID: u[2].ID, PostID: p[0].ID},
		{UserID: u[0].ID, PostID: p[3].ID},
		{UserID: u[2].ID, PostID: p[3].ID},
		{UserID: u[0].ID, PostID: p[4].ID},
		{UserID: u[1].ID, PostID: p[4].ID},
	}
	reposts := []models.Repost{
		{UserID: u[1].ID, PostID: p[0].ID},
		{UserID: u[2].ID, PostID: p[2].ID},
		{UserID: u[0].ID, PostID: p[4].ID},
	}
	follows := []models.Follow{
		{FollowerID: u[1].ID, FollowingID: u[0].ID},
		{FollowerID: u[2].ID, FollowingID: u[0].ID},
		{FollowerID: u[0].ID, FollowingID: u[1].ID},
		{FollowerID: u[0].ID, FollowingID: u[2].ID},
	}
	comments := []models.Comment{
		{UserID: u[1].ID, PostID: p[0].ID, Content: "Looks great, congrats on the launch!"},
		{UserID: u[2].ID, PostID: p[0].ID, Content: "Loving it so far ✨"},
	}

	type pair struct{ a, b string }
	seen := map[pair]bool{}
	for _, l := range likes {
		seen[pair{l.UserID, l.PostID}] = true
	}
	followed := map[pair]bool{}
	for _, f := range follows {
		followed[pair{f.FollowerID, f.FollowingID}] = true
	}

	for _, user := range u[len(demoAccounts):] {
		for i := 0; i < 3 && len(p) > 0; i++ {
			post := p[s.rng.Intn(len(p))]
			key := pair{user.ID, post.ID}
			if seen[key] {
				continue
			}
			seen[key] = true
			likes = append(likes, models.Like{UserID: user.ID, PostID: post.ID})
		}
		target := u[s.rng.Intn(len(u))]
		key := pair{user.ID, target.ID}
		if target.ID != user.ID && !followed[key] {
			followed[key] = true
			follows = append(follows, models.Follow{FollowerID: user.ID, FollowingID: target.ID})
		}
	}

	if err := tx.Create(&likes).Error; err != nil {
		return fmt.Errorf("create likes: %w", err)
	}
	if err := tx.Create(&reposts).Error; err != nil {
		return fmt.Errorf("create reposts: %w", err)
	}
	if err := tx.Create(&follows).Error; err != nil {
		return fmt.Errorf("create follows: %w", err)
	}
	if err := tx.Create(&comments).Error; err != nil {
		return fmt.Errorf("create comments: %w", err)
	}
	return nil
}

func (s *Seeder) createItems(tx *gorm.DB, res *Result) error {
	for i := 0; i < s.opts.Items; i++ {
		seller := res.Users[s.rng.Intn(len(res.Users))]
		price := float64(gofakeit.Number(0, 500))
		res.Items = append(res.Items, models.MarketplaceItem{
			Title:       truncate(gofakeit.ProductName(), 120),
			Description: gofakeit.ProductDescription(),
			Price:       &price,
			Category:    categories[s.rng.Intn(len(categories))],
			Condition:   conditions[s.rng.Intn(len(conditions))],
			SellerID:    seller.ID,
			Images: datatypes.JSONSlice[string]{
				fmt.Sprintf("https://picsum.photos/seed/%s/600/600", gofakeit.UUID()),
			},
			Status: models.StatusAvailable,
		})
	}
	if len(res.Items) == 0 {
		return nil
	}
	if err := tx.Create(&res.Items).Error; err != nil {
		return fmt.Errorf("create marketplace items: %w", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
