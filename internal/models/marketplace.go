package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ItemCondition describes the wear of a listed item.
type ItemCondition string

const (
	ConditionNew     ItemCondition = "new"
	ConditionLikeNew ItemCondition = "like_new"
	ConditionGood    ItemCondition = "good"
	ConditionFair    ItemCondition = "fair"
	ConditionPoor    ItemCondition = "poor"
)

// Valid reports whether c is a known condition.
func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// ItemStatus is the sale state of a listing.
type ItemStatus string

const (
	StatusAvailable ItemStatus = "available"
	StatusSold      ItemStatus = "sold"
	StatusReserved  ItemStatus = "reserved"
)

// Valid reports whether s is a known status.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusReserved:
		return true
	}
	return false
}

// MarketplaceItem is a listing owned by its seller. Only the seller may change or remove it.
type MarketplaceItem struct {
	ID          string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Price       *float64                    `json:"price,omitempty"`
	Category    string                      `gorm:"not null;index" json:"category"`
	Condition   ItemCondition               `gorm:"type:varchar(16);not null;default:good" json:"condition"`
	SellerID    string                      `gorm:"not null;index" json:"seller_id"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Videos      datatypes.JSONSlice[string] `json:"videos"`
	Status      ItemStatus                  `gorm:"type:varchar(16);not null;default:available" json:"status"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (MarketplaceItem) TableName() string {
	return "marketplace"
}

// BeforeCreate assigns an ID and the default condition and status.
func (m *MarketplaceItem) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Condition == "" {
		m.Condition = ConditionGood
	}
	if m.Status == "" {
		m.Status = StatusAvailable
	}
	if m.Images == nil {
		m.Images = datatypes.JSONSlice[string]{}
	}
	if m.Videos == nil {
		m.Videos = datatypes.JSONSlice[string]{}
	}
	return nil
}

// MarketplaceItemView is a listing joined with its seller.
type MarketplaceItemView struct {
	MarketplaceItem
	SellerName     string      `json:"-"`
	SellerUsername string      `json:"-"`
	SellerImage    string      `json:"-"`
	SellerVerified bool        `json:"-"`
	Seller         UserSummary `gorm:"-" json:"seller"`
}

// FillSeller copies the joined seller columns into Seller.
func (v *MarketplaceItemView) FillSeller() {
	v.Seller = UserSummary{
		ID:       v.SellerID,
		Name:     v.SellerName,
		Username: v.SellerUsername,
		Image:    v.SellerImage,
		Verified: v.SellerVerified,
	}
}
