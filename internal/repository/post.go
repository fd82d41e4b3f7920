package repository

import (
	"context"
	"errors"
	"time"

	"zestyy/internal/models"

	"gorm.io/gorm"
)

// PostQuery selects a page of feed entries.
type PostQuery struct {
	AuthorID string
	ViewerID string
	Before   *time.Time
	Limit    int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetView(ctx context.Context, id, viewerID string) (*models.PostView, error)
	List(ctx context.Context, q PostQuery) ([]models.PostView, error)
	Delete(ctx context.Context, id string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", post.AuthorID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetView(ctx context.Context, id, viewerID string) (*models.PostView, error) {
	var views []models.PostView
	if err := r.viewQuery(ctx, viewerID).Where("posts.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(views) == 0 {
		return nil, models.NewNotFoundError("Post", id)
	}
	views[0].FillAuthor()
	return &views[0], nil
}

func (r *postRepository) List(ctx context.Context, q PostQuery) ([]models.PostView, error) {
	db := r.viewQuery(ctx, q.ViewerID)
	if q.AuthorID != "" {
		db = db.Where("posts.author_id = ?", q.AuthorID)
	}
	if q.Before != nil {
		db = db.Where("posts.created_at < ?", q.Before.UTC())
	}

	views := []models.PostView{}
	err := db.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(ClampLimit(q.Limit)).
		Scan(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range views {
		views[i].FillAuthor()
	}
	return views, nil
}

// viewQuery selects posts with their author and live counts in a single query.
// An empty viewerID never matches, so liked and reposted come back false.
func (r *postRepository) viewQuery(ctx context.Context, viewerID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(`posts.id, posts.content, posts.image_url, posts.author_id, posts.created_at, posts.updated_at,
			users.name AS author_name, users.username AS author_username,
			users.image AS author_image, users.verified AS author_verified,
			(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count,
			(SELECT COUNT(*) FROM reposts WHERE reposts.post_id = posts.id) AS reposts_count,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count,
			EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked,
			EXISTS(SELECT 1 FROM reposts WHERE reposts.post_id = posts.id AND reposts.user_id = ?) AS reposted`,
			viewerID, viewerID).
		Joins("JOIN users ON users.id = posts.author_id")
}

// Delete removes the post together with its likes, reposts, comments and
// notifications. Children go first so databases created without foreign keys
// are left without orphans.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.Notification{}, &models.Comment{}, &models.Repost{}, &models.Like{}} {
			if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&models.Post{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	if affected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
