package service

import (
	"context"
	"math"
	"strings"

	"zestyy/internal/models"
	"zestyy/internal/repository"

	"gorm.io/datatypes"
)

const (
	maxItemTitleLen       = 120
	maxItemDescriptionLen = 5000
	maxItemMedia          = 10
)

type MarketplaceService struct {
	store *repository.Store
}

type CreateItemInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Price       *float64             `json:"price"`
	Category    string               `json:"category"`
	Condition   models.ItemCondition `json:"condition"`
	Images      []string             `json:"images"`
	Videos      []string             `json:"videos"`
}

// UpdateItemInput changes only the fields that are set. ClearPrice removes
// the price and cannot be combined with Price.
type UpdateItemInput struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Price       *float64              `json:"price"`
	ClearPrice  bool                  `json:"clear_price"`
	Category    *string               `json:"category"`
	Condition   *models.ItemCondition `json:"condition"`
	Images      *[]string             `json:"images"`
	Videos      *[]string             `json:"videos"`
	Status      *models.ItemStatus    `json:"status"`
}

func NewMarketplaceService(store *repository.Store) *MarketplaceService {
	return &MarketplaceService{store: store}
}

func validatePrice(p *float64) error {
	if p == nil {
		return nil
	}
	if math.IsNaN(*p) || math.IsInf(*p, 0) || *p < 0 {
		return models.NewValidationError("Price must be a non-negative number")
	}
	return nil
}

func cleanMedia(field string, urls []string) (datatypes.JSONSlice[string], error) {
	out := datatypes.JSONSlice[string]{}
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	if len(out) > maxItemMedia {
		return nil, models.NewValidationError("Too many " + field)
	}
	return out, nil
}

// Create lists a new item for sellerID. Condition defaults to good.
func (s *MarketplaceService) Create(ctx context.Context, sellerID string, in CreateItemInput) (*models.MarketplaceItemView, error) {
	title, err := validateText("Title", in.Title, maxItemTitleLen)
	if err != nil {
		return nil, err
	}
	description, err := validateText("Description", in.Description, maxItemDescriptionLen)
	if err != nil {
		return nil, err
	}
	category, err := validateText("Category", in.Category, 0)
	if err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	condition := in.Condition
	if condition == "" {
		condition = models.ConditionGood
	}
	if !condition.Valid() {
		return nil, models.NewValidationError("Invalid condition")
	}
	images, err := cleanMedia("images", in.Images)
	if err != nil {
		return nil, err
	}
	videos, err := cleanMedia("videos", in.Videos)
	if err != nil {
		return nil, err
	}

	item := &models.MarketplaceItem{
		Title:       title,
		Description: description,
		Price:       in.Price,
		Category:    strings.ToLower(category),
		Condition:   condition,
		SellerID:    sellerID,
		Images:      images,
		Videos:      videos,
		Status:      models.StatusAvailable,
	}
	if err := s.store.Marketplace.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.store.Marketplace.GetView(ctx, item.ID)
}

func (s *MarketplaceService) Get(ctx context.Context, id string) (*models.MarketplaceItemView, error) {
	return s.store.Marketplace.GetView(ctx, id)
}

// List returns available items, newest first, optionally in one category.
func (s *MarketplaceService) List(ctx context.Context, category string, limit int) ([]models.MarketplaceItemView, error) {
	return s.store.Marketplace.List(ctx, repository.MarketplaceQuery{
		Category: strings.ToLower(strings.TrimSpace(category)),
		Status:   models.StatusAvailable,
		Limit:    limit,
	})
}

// ListBySeller returns every item the seller listed, whatever its status.
func (s *MarketplaceService) ListBySeller(ctx context.Context, sellerID string, limit int) ([]models.MarketplaceItemView, error) {
	return s.store.Marketplace.List(ctx, repository.MarketplaceQuery{
		SellerID: sellerID,
		Limit:    limit,
	})
}

func (s *MarketplaceService) ownedItem(ctx context.Context, actorID, id string) (*models.MarketplaceItem, error) {
	item, err := s.store.Marketplace.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.SellerID != actorID {
		return nil, models.NewForbiddenError("You can only modify your own listings")
	}
	return item, nil
}

// Update applies in to an item owned by actorID.
func (s *MarketplaceService) Update(ctx context.Context, actorID, id string, in UpdateItemInput) (*models.MarketplaceItemView, error) {
	item, err := s.ownedItem(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if item.Title, err = validateText("Title", *in.Title, maxItemTitleLen); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		if item.Description, err = validateText("Description", *in.Description, maxItemDescriptionLen); err != nil {
			return nil, err
		}
	}
	if in.Category != nil {
		category, err := validateText("Category", *in.Category, 0)
		if err != nil {
			return nil, err
		}
		item.Category = strings.ToLower(category)
	}
	switch {
	case in.ClearPrice && in.Price != nil:
		return nil, models.NewValidationError("Price and clear_price are mutually exclusive")
	case in.ClearPrice:
		item.Price = nil
	case in.Price != nil:
		if err := validatePrice(in.Price); err != nil {
			return nil, err
		}
		item.Price = in.Price
	}
	if in.Condition != nil {
		if !in.Condition.Valid() {
			return nil, models.NewValidationError("Invalid condition")
		}
		item.Condition = *in.Condition
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, models.NewValidationError("Invalid status")
		}
		item.Status = *in.Status
	}
	if in.Images != nil {
		if item.Images, err = cleanMedia("images", *in.Images); err != nil {
			return nil, err
		}
	}
	if in.Videos != nil {
		if item.Videos, err = cleanMedia("videos", *in.Videos); err != nil {
			return nil, err
		}
	}

	if err := s.store.Marketplace.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.store.Marketplace.GetView(ctx, item.ID)
}

// Delete removes an item owned by actorID.
func (s *MarketplaceService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.ownedItem(ctx, actorID, id); err != nil {
		return err
	}
	return s.store.Marketplace.Delete(ctx, id)
}
