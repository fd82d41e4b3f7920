package repository

import (
	"context"

	"zestyy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository stores likes and reposts.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, userID, postID string) (bool, error)
	ToggleRepost(ctx context.Context, userID, postID string) (bool, error)
	ListLikers(ctx context.Context, postID string) ([]models.UserSummary, error)
	ListReposters(ctx context.Context, postID string) ([]models.UserSummary, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	return r.toggle(ctx, &models.Like{UserID: userID, PostID: postID}, &models.Like{}, userID, postID)
}

func (r *engagementRepository) ToggleRepost(ctx context.Context, userID, postID string) (bool, error) {
	return r.toggle(ctx, &models.Repost{UserID: userID, PostID: postID}, &models.Repost{}, userID, postID)
}

// toggle deletes the (user, post) row if present and inserts it otherwise.
// It reports whether the row exists afterwards.
func (r *engagementRepository) toggle(ctx context.Context, row, model interface{}, userID, postID string) (bool, error) {
	db := r.db.WithContext(ctx)
	result := db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(model)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	// DO NOTHING absorbs a concurrent identical insert without failing the
	// statement, which would abort an enclosing Postgres transaction.
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		if isForeignKeyError(err) {
			return false, models.NewNotFoundError("Post", postID)
		}
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *engagementRepository) ListLikers(ctx context.Context, postID string) ([]models.UserSummary, error) {
	return r.listUsers(ctx, "likes", postID)
}

func (r *engagementRepository) ListReposters(ctx context.Context, postID string) ([]models.UserSummary, error) {
	return r.listUsers(ctx, "reposts", postID)
}

func (r *engagementRepository) listUsers(ctx context.Context, table, postID string) ([]models.UserSummary, error) {
	users := []models.UserSummary{}
	err := r.db.WithContext(ctx).
		Table(table).
		Select("users.id, users.name, users.username, users.image, users.verified").
		Joins("JOIN users ON users.id = "+table+".user_id").
		Where(table+".post_id = ?", postID).
		Order(table + ".created_at DESC").
		Scan(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
