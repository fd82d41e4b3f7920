package service

import (
	"context"

	"zestyy/internal/models"
	"zestyy/internal/observability"
	"zestyy/internal/repository"
)

// FollowService maintains the follow graph.
type FollowService struct {
	store         *repository.Store
	notifications *NotificationService
}

func NewFollowService(store *repository.Store, notifications *NotificationService) *FollowService {
	return &FollowService{store: store, notifications: notifications}
}

// Toggle follows followingID, or unfollows when the edge exists. Following
// yourself is rejected before anything is looked up.
func (s *FollowService) Toggle(ctx context.Context, followerID, followingID string) (models.ToggleResult, error) {
	if followerID == followingID {
		return models.ToggleResult{}, models.NewInvalidOperationError("You cannot follow yourself")
	}

	var (
		active  bool
		created *models.Notification
	)
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.GetByID(ctx, followingID); err != nil {
			return err
		}
		var err error
		if active, err = tx.Follows.Toggle(ctx, followerID, followingID); err != nil {
			return err
		}
		if !active {
			return nil
		}
		created, err = s.notifications.record(ctx, tx, NotifyInput{
			RecipientID: followingID,
			Type:        models.NotificationFollow,
			ActorID:     followerID,
		})
		return err
	})
	if err != nil {
		return models.ToggleResult{}, err
	}

	observability.EngagementToggles.WithLabelValues("follow", observability.ToggleState(active)).Inc()
	s.notifications.deliver(ctx, created)
	return models.ToggleResult{Active: active}, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.store.Follows.IsFollowing(ctx, followerID, followingID)
}

// Followers lists who follows userID.
func (s *FollowService) Followers(ctx context.Context, userID string) ([]models.UserSummary, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Follows.Followers(ctx, userID)
}

// Following lists whom userID follows.
func (s *FollowService) Following(ctx context.Context, userID string) ([]models.UserSummary, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Follows.Following(ctx, userID)
}
