package server

import (
	"zestyy/internal/middleware"
	"zestyy/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications?limit
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	list, err := s.notifications.GetByUser(c.UserContext(), middleware.CurrentUserID(c), c.QueryInt("limit", 0))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(list)
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	n, err := s.notifications.UnreadCount(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// MarkNotificationsRead handles POST /api/notifications/read. Without a
// notification_id every notification of the caller is marked.
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	var req struct {
		NotificationID *string `json:"notification_id"`
	}
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return models.RespondWithAppError(c, err)
		}
	}

	n, err := s.notifications.MarkAsRead(c.UserContext(), middleware.CurrentUserID(c), req.NotificationID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}
