package repository

import (
	"context"
	"errors"
	"strings"

	"zestyy/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	GetStats(ctx context.Context, id string) (models.UserStats, error)
	FilterByAcademic(ctx context.Context, filter models.AcademicFilter) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", strings.ToLower(strings.TrimSpace(username)))
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// Update applies column updates to one user. Callers choose the columns.
func (r *userRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) GetStats(ctx context.Context, id string) (models.UserStats, error) {
	var stats models.UserStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Post{}).Where("author_id = ?", id).Count(&stats.Posts).Error; err != nil {
		return stats, models.NewInternalError(err)
	}
	if err := db.Model(&models.Follow{}).Where("following_id = ?", id).Count(&stats.Followers).Error; err != nil {
		return stats, models.NewInternalError(err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&stats.Following).Error; err != nil {
		return stats, models.NewInternalError(err)
	}
	return stats, nil
}

func (r *userRepository) FilterByAcademic(ctx context.Context, filter models.AcademicFilter) ([]models.User, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Degree != nil {
		q = q.Where("degree = ?", *filter.Degree)
	}
	if filter.Branch != nil {
		q = q.Where("branch = ?", *filter.Branch)
	}
	if filter.Section != nil {
		q = q.Where("section = ?", *filter.Section)
	}
	if filter.Hostel != nil {
		q = q.Where("hostel = ?", *filter.Hostel)
	}

	var users []models.User
	if err := q.Order("name ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
