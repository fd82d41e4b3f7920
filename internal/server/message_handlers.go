package server

import (
	"zestyy/internal/middleware"
	"zestyy/internal/models"
	"zestyy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetConversations handles GET /api/messages
func (s *Server) GetConversations(c *fiber.Ctx) error {
	conversations, err := s.messages.GetConversations(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(conversations)
}

// SendMessage handles POST /api/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		ReceiverID string `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}
	if req.ReceiverID == "" {
		return models.RespondWithAppError(c, models.NewValidationError("Receiver ID is required"))
	}

	msg, err := s.messages.Send(c.UserContext(), service.SendMessageInput{
		SenderID:   middleware.CurrentUserID(c),
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

// GetMessages handles GET /api/messages/conversations/:id where :id is the counterpart.
func (s *Server) GetMessages(c *fiber.Ctx) error {
	messages, err := s.messages.GetMessages(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(messages)
}

// MarkMessagesRead handles POST /api/messages/conversations/:id/read
func (s *Server) MarkMessagesRead(c *fiber.Ctx) error {
	n, err := s.messages.MarkAsRead(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}
