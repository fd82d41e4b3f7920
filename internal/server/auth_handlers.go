package server

import (
	"log/slog"

	"zestyy/internal/middleware"
	"zestyy/internal/models"
	"zestyy/internal/service"

	"github.com/gofiber/fiber/v2"
)

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.users.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := middleware.GenerateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered", slog.String("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := middleware.GenerateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	return c.JSON(authResponse{Token: token, User: user})
}
