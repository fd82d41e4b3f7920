package server

import (
	"zestyy/internal/middleware"
	"zestyy/internal/models"
	"zestyy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// FilterUsers handles GET /api/users/filter?degree&branch&section&hostel
func (s *Server) FilterUsers(c *fiber.Ctx) error {
	filter, err := academicFilter(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	users, err := s.users.FilterByAcademic(c.UserContext(), filter)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

// GetProfile handles GET /api/users/profile/:username
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.users.GetProfile(c.UserContext(), c.Params("username"), middleware.CurrentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// GetMe handles GET /api/users/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.users.FindByID(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMe handles PUT /api/users/me
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.users.UpdateProfile(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	in, err := s.feedInput(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	posts, err := s.posts.GetByAuthor(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// GetUserStats handles GET /api/users/:id/stats
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	stats, err := s.users.GetStats(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(stats)
}

// ToggleFollow handles POST /api/users/:id/follow
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	res, err := s.follows.Toggle(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"following": res.Active})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	users, err := s.follows.Followers(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	users, err := s.follows.Following(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}
