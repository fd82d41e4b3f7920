package server

import (
	"zestyy/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns configured feature flags and evaluated state for current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(middleware.CurrentUserID(c)),
	})
}
