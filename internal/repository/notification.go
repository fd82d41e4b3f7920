package repository

import (
	"context"

	"zestyy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository stores notifications, at most one per (recipient, type, actor, post).
type NotificationRepository interface {
	CreateIfAbsent(ctx context.Context, n *models.Notification) (bool, error)
	GetView(ctx context.Context, id string) (*models.NotificationView, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.NotificationView, error)
	MarkRead(ctx context.Context, userID string, notificationID *string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateIfAbsent inserts n unless a row with the same tuple exists, read or not.
// It reports whether a row was inserted.
func (r *notificationRepository) CreateIfAbsent(ctx context.Context, n *models.Notification) (bool, error) {
	db := r.db.WithContext(ctx)

	postKey := ""
	if n.PostID != nil {
		postKey = *n.PostID
	}

	var existing int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND actor_id = ? AND COALESCE(post_id, '') = ?",
			n.UserID, n.Type, n.ActorID, postKey).
		Count(&existing).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	if existing > 0 {
		return false, nil
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(n)
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return false, nil
		}
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *notificationRepository) GetView(ctx context.Context, id string) (*models.NotificationView, error) {
	var views []models.NotificationView
	if err := r.viewQuery(ctx).Where("notifications.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(views) == 0 {
		return nil, models.NewNotFoundError("Notification", id)
	}
	views[0].Resolve()
	return &views[0], nil
}

// ListByUser returns the newest notifications for userID. Rows whose actor no
// longer exists drop out of the inner join.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.NotificationView, error) {
	views := []models.NotificationView{}
	err := r.viewQuery(ctx).
		Where("notifications.user_id = ?", userID).
		Order("notifications.created_at DESC").
		Limit(ClampLimit(limit)).
		Scan(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range views {
		views[i].Resolve()
	}
	return views, nil
}

func (r *notificationRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("notifications").
		Select(`notifications.id, notifications.user_id, notifications.type, notifications.actor_id,
			notifications.post_id, notifications.read, notifications.created_at,
			users.name AS actor_name, users.username AS actor_username,
			users.image AS actor_image, users.verified AS actor_verified,
			posts.content AS post_content`).
		Joins("JOIN users ON users.id = notifications.actor_id").
		Joins("LEFT JOIN posts ON posts.id = notifications.post_id")
}

// MarkRead marks one of the user's notifications, or all of them when notificationID is nil.
func (r *notificationRepository) MarkRead(ctx context.Context, userID string, notificationID *string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if notificationID != nil {
		q = q.Where("id = ?", *notificationID)
	}
	result := q.Update("read", true)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
