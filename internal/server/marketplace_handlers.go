package server

import (
	"zestyy/internal/middleware"
	"zestyy/internal/models"
	"zestyy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListItems handles GET /api/marketplace?category&limit&seller_id. With a
// seller every listing of that seller is returned, sold ones included.
func (s *Server) ListItems(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	var (
		items []models.MarketplaceItemView
		err   error
	)
	if seller := c.Query("seller_id"); seller != "" {
		items, err = s.marketplace.ListBySeller(c.UserContext(), seller, limit)
	} else {
		items, err = s.marketplace.List(c.UserContext(), c.Query("category"), limit)
	}
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(items)
}

// CreateItem handles POST /api/marketplace
func (s *Server) CreateItem(c *fiber.Ctx) error {
	var req service.CreateItemInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	item, err := s.marketplace.Create(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetItem handles GET /api/marketplace/:id
func (s *Server) GetItem(c *fiber.Ctx) error {
	item, err := s.marketplace.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(item)
}

// UpdateItem handles PUT /api/marketplace/:id
func (s *Server) UpdateItem(c *fiber.Ctx) error {
	var req service.UpdateItemInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	item, err := s.marketplace.Update(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(item)
}

// DeleteItem handles DELETE /api/marketplace/:id
func (s *Server) DeleteItem(c *fiber.Ctx) error {
	if err := s.marketplace.Delete(c.UserContext(), middleware.CurrentUserID(c), c.Params("id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
