package service

import (
	"context"

	"zestyy/internal/models"
	"zestyy/internal/observability"
	"zestyy/internal/repository"
)

// EngagementService toggles likes and reposts.
type EngagementService struct {
	store         *repository.Store
	notifications *NotificationService
}

func NewEngagementService(store *repository.Store, notifications *NotificationService) *EngagementService {
	return &EngagementService{store: store, notifications: notifications}
}

// ToggleLike likes the post, or removes an existing like. A new like notifies
// the author; removing one leaves the earlier notification in place.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID string) (models.ToggleResult, error) {
	return s.toggle(ctx, "like", models.NotificationLike, userID, postID,
		func(tx *repository.Store) (bool, error) { return tx.Engagement.ToggleLike(ctx, userID, postID) })
}

// ToggleRepost behaves like ToggleLike for reposts.
func (s *EngagementService) ToggleRepost(ctx context.Context, userID, postID string) (models.ToggleResult, error) {
	return s.toggle(ctx, "repost", models.NotificationRepost, userID, postID,
		func(tx *repository.Store) (bool, error) { return tx.Engagement.ToggleRepost(ctx, userID, postID) })
}

func (s *EngagementService) toggle(
	ctx context.Context,
	kind string,
	notificationType models.NotificationType,
	userID, postID string,
	flip func(tx *repository.Store) (bool, error),
) (models.ToggleResult, error) {
	var (
		active  bool
		created *models.Notification
	)
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		post, err := tx.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if active, err = flip(tx); err != nil {
			return err
		}
		if !active {
			return nil
		}
		created, err = s.notifications.record(ctx, tx, NotifyInput{
			RecipientID: post.AuthorID,
			Type:        notificationType,
			ActorID:     userID,
			PostID:      &post.ID,
		})
		return err
	})
	if err != nil {
		return models.ToggleResult{}, err
	}

	observability.EngagementToggles.WithLabelValues(kind, observability.ToggleState(active)).Inc()
	s.notifications.deliver(ctx, created)
	return models.ToggleResult{Active: active}, nil
}

// ListLikers returns the users who liked postID.
func (s *EngagementService) ListLikers(ctx context.Context, postID string) ([]models.UserSummary, error) {
	if _, err := s.store.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.Engagement.ListLikers(ctx, postID)
}

// ListReposters returns the users who reposted postID.
func (s *EngagementService) ListReposters(ctx context.Context, postID string) ([]models.UserSummary, error) {
	if _, err := s.store.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.Engagement.ListReposters(ctx, postID)
}
