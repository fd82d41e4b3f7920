package repository

import (
	"context"
	"errors"

	"zestyy/internal/models"

	"gorm.io/gorm"
)

// MarketplaceQuery filters listings. Empty fields match everything.
type MarketplaceQuery struct {
	Category string
	SellerID string
	Status   models.ItemStatus
	Limit    int
}

// MarketplaceRepository stores marketplace listings.
type MarketplaceRepository interface {
	Create(ctx context.Context, item *models.MarketplaceItem) error
	GetByID(ctx context.Context, id string) (*models.MarketplaceItem, error)
	GetView(ctx context.Context, id string) (*models.MarketplaceItemView, error)
	List(ctx context.Context, q MarketplaceQuery) ([]models.MarketplaceItemView, error)
	Update(ctx context.Context, item *models.MarketplaceItem) error
	Delete(ctx context.Context, id string) error
}

type marketplaceRepository struct {
	db *gorm.DB
}

// NewMarketplaceRepository creates a new MarketplaceRepository
func NewMarketplaceRepository(db *gorm.DB) MarketplaceRepository {
	return &marketplaceRepository{db: db}
}

func (r *marketplaceRepository) Create(ctx context.Context, item *models.MarketplaceItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", item.SellerID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *marketplaceRepository) GetByID(ctx context.Context, id string) (*models.MarketplaceItem, error) {
	var item models.MarketplaceItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Marketplace item", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *marketplaceRepository) GetView(ctx context.Context, id string) (*models.MarketplaceItemView, error) {
	var views []models.MarketplaceItemView
	if err := r.viewQuery(ctx).Where("marketplace.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(views) == 0 {
		return nil, models.NewNotFoundError("Marketplace item", id)
	}
	views[0].FillSeller()
	return &views[0], nil
}

func (r *marketplaceRepository) List(ctx context.Context, q MarketplaceQuery) ([]models.MarketplaceItemView, error) {
	db := r.viewQuery(ctx)
	if q.Category != "" {
		db = db.Where("marketplace.category = ?", q.Category)
	}
	if q.SellerID != "" {
		db = db.Where("marketplace.seller_id = ?", q.SellerID)
	}
	if q.Status != "" {
		db = db.Where("marketplace.status = ?", q.Status)
	}

	views := []models.MarketplaceItemView{}
	err := db.Order("marketplace.created_at DESC").
		Order("marketplace.id DESC").
		Limit(ClampLimit(q.Limit)).
		Scan(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range views {
		views[i].FillSeller()
	}
	return views, nil
}

func (r *marketplaceRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("marketplace").
		Select(`marketplace.*,
			users.name AS seller_name, users.username AS seller_username,
			users.image AS seller_image, users.verified AS seller_verified`).
		Joins("JOIN users ON users.id = marketplace.seller_id")
}

// Update saves every column of item and bumps updated_at.
func (r *marketplaceRepository) Update(ctx context.Context, item *models.MarketplaceItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *marketplaceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MarketplaceItem{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Marketplace item", id)
	}
	return nil
}
