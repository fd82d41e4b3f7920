package server

import (
	"log/slog"

	"zestyy/internal/middleware"
	"zestyy/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketHandler streams notification and message events to the
// authenticated user. It answers 503 when Redis, and with it the hub, is off.
func (s *Server) WebSocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(string)
		if userID == "" {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("websocket registration rejected",
				slog.String("user_id", userID), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		middleware.Logger.Debug("websocket connected", slog.String("user_id", userID))
		client.Serve()
	})

	return func(c *fiber.Ctx) error {
		if s.hub == nil {
			return models.RespondWithError(c, fiber.StatusServiceUnavailable,
				models.NewInternalError(errRealtimeDisabled))
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
