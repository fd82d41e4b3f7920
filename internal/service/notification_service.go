package service

import (
	"context"
	"log/slog"

	"zestyy/internal/middleware"
	"zestyy/internal/models"
	"zestyy/internal/notifications"
	"zestyy/internal/observability"
	"zestyy/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// NotificationService records notifications and pushes them to live clients.
type NotificationService struct {
	store     *repository.Store
	publisher Publisher
}

// NotifyInput names the recipient, the action and who did it.
type NotifyInput struct {
	RecipientID string
	Type        models.NotificationType
	ActorID     string
	PostID      *string
}

// NewNotificationService creates a NotificationService. publisher may be nil.
func NewNotificationService(store *repository.Store, publisher Publisher) *NotificationService {
	return &NotificationService{store: store, publisher: publisher}
}

// Notify stores one notification and publishes it once committed. It returns
// nil when the notification was self-directed or already present.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) (*models.Notification, error) {
	var created *models.Notification
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		created, err = s.record(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.deliver(ctx, created)
	return created, nil
}

// record writes through tx so the notification commits or rolls back with the
// action that caused it.
func (s *NotificationService) record(ctx context.Context, tx *repository.Store, in NotifyInput) (*models.Notification, error) {
	if in.RecipientID == in.ActorID {
		observability.NotificationsSkipped.WithLabelValues(string(in.Type), "self").Inc()
		return nil, nil
	}

	span, ctx := observability.StartSpan(ctx, "notification.record",
		attribute.String("notification.type", string(in.Type)),
		attribute.String("notification.recipient", in.RecipientID),
	)

	n := &models.Notification{
		UserID:  in.RecipientID,
		Type:    in.Type,
		ActorID: in.ActorID,
		PostID:  in.PostID,
	}
	created, err := tx.Notifications.CreateIfAbsent(ctx, n)
	span.End(err)
	if err != nil {
		return nil, err
	}
	if !created {
		observability.NotificationsSkipped.WithLabelValues(string(in.Type), "duplicate").Inc()
		return nil, nil
	}
	return n, nil
}

// deliver publishes a committed notification. Delivery is best effort.
func (s *NotificationService) deliver(ctx context.Context, n *models.Notification) {
	if n == nil {
		return
	}
	observability.NotificationsDispatched.WithLabelValues(string(n.Type)).Inc()
	if s.publisher == nil {
		return
	}

	view, err := s.store.Notifications.GetView(ctx, n.ID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to load notification for delivery",
			slog.String("notification_id", n.ID), slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.PublishEvent(ctx, n.UserID, notifications.EventNotification, view); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish notification",
			slog.String("notification_id", n.ID), slog.String("error", err.Error()))
	}
}

// GetByUser returns the user's notifications, newest first.
func (s *NotificationService) GetByUser(ctx context.Context, userID string, limit int) ([]models.NotificationView, error) {
	return s.store.Notifications.ListByUser(ctx, userID, limit)
}

// MarkAsRead marks one notification, or all of them when notificationID is nil.
// Only the user's own notifications are touched.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID string, notificationID *string) (int64, error) {
	return s.store.Notifications.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.store.Notifications.UnreadCount(ctx, userID)
}
