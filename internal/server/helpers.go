package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"zestyy/internal/middleware"
	"zestyy/internal/models"
	"zestyy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into dst and answers 400 on failure.
// Callers return the error as-is; it is nil only when decoding succeeded.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// feedInput reads ?limit and ?before (RFC 3339) for the viewer.
func (s *Server) feedInput(c *fiber.Ctx) (service.FeedInput, error) {
	in := service.FeedInput{
		ViewerID: middleware.CurrentUserID(c),
		Limit:    c.QueryInt("limit", s.config.FeedLimit),
	}
	if raw := c.Query("before"); raw != "" {
		before, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return in, models.NewValidationError("before must be an RFC 3339 timestamp")
		}
		in.Before = &before
	}
	return in, nil
}

// optionalQuery returns nil for an absent or blank query parameter.
func optionalQuery(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}

func academicFilter(c *fiber.Ctx) (models.AcademicFilter, error) {
	filter := models.AcademicFilter{
		Degree: optionalQuery(c, "degree"),
		Branch: optionalQuery(c, "branch"),
		Hostel: optionalQuery(c, "hostel"),
	}
	if raw := optionalQuery(c, "section"); raw != nil {
		section, err := strconv.Atoi(*raw)
		if err != nil {
			return filter, models.NewValidationError("Section must be a number")
		}
		filter.Section = &section
	}
	return filter, nil
}

// FeatureRequired hides a route group behind a feature flag. Disabled features
// answer 404 so clients cannot tell them apart from missing routes.
func (s *Server) FeatureRequired(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.featureFlags == nil || !s.featureFlags.Enabled(name, middleware.CurrentUserID(c)) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Feature", name))
		}
		return c.Next()
	}
}

var errRealtimeDisabled = errors.New("realtime delivery is not configured")
