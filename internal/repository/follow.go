package repository

import (
	"context"

	"zestyy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository stores the follow graph.
type FollowRepository interface {
	Toggle(ctx context.Context, followerID, followingID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]models.UserSummary, error)
	Following(ctx context.Context, userID string) ([]models.UserSummary, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Toggle removes the edge if present and creates it otherwise, reporting the new state.
func (r *followRepository) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	db := r.db.WithContext(ctx)
	result := db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	edge := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error; err != nil {
		if isForeignKeyError(err) {
			return false, models.NewNotFoundError("User", followingID)
		}
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Followers(ctx context.Context, userID string) ([]models.UserSummary, error) {
	return r.listEdge(ctx, "follows.follower_id", "follows.following_id", userID)
}

func (r *followRepository) Following(ctx context.Context, userID string) ([]models.UserSummary, error) {
	return r.listEdge(ctx, "follows.following_id", "follows.follower_id", userID)
}

func (r *followRepository) listEdge(ctx context.Context, joinCol, whereCol, userID string) ([]models.UserSummary, error) {
	users := []models.UserSummary{}
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("users.id, users.name, users.username, users.image, users.verified").
		Joins("JOIN users ON users.id = "+joinCol).
		Where(whereCol+" = ?", userID).
		Order("follows.created_at DESC").
		Scan(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
