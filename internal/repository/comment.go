package repository

import (
	"context"

	"zestyy/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetView(ctx context.Context, id string) (*models.CommentView, error)
	ListByPost(ctx context.Context, postID string) ([]models.CommentView, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("Post", comment.PostID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetView(ctx context.Context, id string) (*models.CommentView, error) {
	var views []models.CommentView
	if err := r.viewQuery(ctx).Where("comments.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(views) == 0 {
		return nil, models.NewNotFoundError("Comment", id)
	}
	views[0].FillUser()
	return &views[0], nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	views := []models.CommentView{}
	err := r.viewQuery(ctx).
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range views {
		views[i].FillUser()
	}
	return views, nil
}

func (r *commentRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments").
		Select(`comments.id, comments.content, comments.user_id, comments.post_id, comments.created_at,
			users.name AS user_name, users.username AS user_username,
			users.image AS user_image, users.verified AS user_verified`).
		Joins("JOIN users ON users.id = comments.user_id")
}
