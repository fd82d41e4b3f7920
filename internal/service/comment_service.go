package service

import (
	"context"

	"zestyy/internal/models"
	"zestyy/internal/repository"
)

// MaxCommentLength matches the post limit.
const MaxCommentLength = models.MaxPostLength

type CommentService struct {
	store         *repository.Store
	notifications *NotificationService
}

type CreateCommentInput struct {
	UserID  string
	PostID  string
	Content string
}

func NewCommentService(store *repository.Store, notifications *NotificationService) *CommentService {
	return &CommentService{store: store, notifications: notifications}
}

// Create adds a comment and notifies the post author unless they wrote it.
// Repeat comments by the same user on the same post share one notification.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.CommentView, error) {
	content, err := validateText("Content", in.Content, MaxCommentLength)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, UserID: in.UserID, PostID: in.PostID}
	var created *models.Notification
	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		post, err := tx.Posts.GetByID(ctx, in.PostID)
		if err != nil {
			return err
		}
		if err := tx.Comments.Create(ctx, comment); err != nil {
			return err
		}
		created, err = s.notifications.record(ctx, tx, NotifyInput{
			RecipientID: post.AuthorID,
			Type:        models.NotificationComment,
			ActorID:     in.UserID,
			PostID:      &post.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifications.deliver(ctx, created)
	return s.store.Comments.GetView(ctx, comment.ID)
}

// ListByPost returns the post's comments, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	if _, err := s.store.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.Comments.ListByPost(ctx, postID)
}
