package server

import (
	"zestyy/internal/middleware"
	"zestyy/internal/models"
	"zestyy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/posts
func (s *Server) GetFeed(c *fiber.Ctx) error {
	in, err := s.feedInput(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	posts, err := s.posts.GetFeed(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content  string  `json:"content"`
		ImageURL *string `json:"image_url"`
	}
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	post, err := s.posts.Create(c.UserContext(), service.CreatePostInput{
		AuthorID: middleware.CurrentUserID(c),
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.posts.GetByID(c.UserContext(), c.Params("id"), middleware.CurrentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.posts.Delete(c.UserContext(), c.Params("id"), middleware.CurrentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	res, err := s.engagement.ToggleLike(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"liked": res.Active})
}

// ToggleRepost handles POST /api/posts/:id/repost
func (s *Server) ToggleRepost(c *fiber.Ctx) error {
	res, err := s.engagement.ToggleRepost(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"reposted": res.Active})
}

// GetLikers handles GET /api/posts/:id/likes
func (s *Server) GetLikers(c *fiber.Ctx) error {
	users, err := s.engagement.ListLikers(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

// GetReposters handles GET /api/posts/:id/reposts
func (s *Server) GetReposters(c *fiber.Ctx) error {
	users, err := s.engagement.ListReposters(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.comments.ListByPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	comment, err := s.comments.Create(c.UserContext(), service.CreateCommentInput{
		UserID:  middleware.CurrentUserID(c),
		PostID:  c.Params("id"),
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
