package service

import (
	"context"
	"time"

	"zestyy/internal/models"
	"zestyy/internal/repository"
)

type PostService struct {
	store *repository.Store
}

type CreatePostInput struct {
	AuthorID string
	Content  string
	ImageURL *string
}

// FeedInput pages through posts. Limit is capped at repository.MaxListLimit;
// Before, when set, only returns posts created strictly earlier.
type FeedInput struct {
	ViewerID string
	Before   *time.Time
	Limit    int
}

func NewPostService(store *repository.Store) *PostService {
	return &PostService{store: store}
}

// Create publishes a post of 1 to 280 characters.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	content, err := validateText("Content", in.Content, models.MaxPostLength)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Content:  content,
		ImageURL: nonEmpty(in.ImageURL),
		AuthorID: in.AuthorID,
	}
	if err := s.store.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.store.Posts.GetView(ctx, post.ID, in.AuthorID)
}

// GetFeed returns the newest posts from everyone.
func (s *PostService) GetFeed(ctx context.Context, in FeedInput) ([]models.PostView, error) {
	return s.store.Posts.List(ctx, repository.PostQuery{
		ViewerID: in.ViewerID,
		Before:   in.Before,
		Limit:    in.Limit,
	})
}

// GetByAuthor returns the newest posts by one author.
func (s *PostService) GetByAuthor(ctx context.Context, authorID string, in FeedInput) ([]models.PostView, error) {
	return s.store.Posts.List(ctx, repository.PostQuery{
		AuthorID: authorID,
		ViewerID: in.ViewerID,
		Before:   in.Before,
		Limit:    in.Limit,
	})
}

func (s *PostService) GetByID(ctx context.Context, id, viewerID string) (*models.PostView, error) {
	return s.store.Posts.GetView(ctx, id, viewerID)
}

// Delete removes a post written by actorID.
func (s *PostService) Delete(ctx context.Context, id, actorID string) error {
	post, err := s.store.Posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.store.Posts.Delete(ctx, id)
}
