package database

import "zestyy/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before children.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Repost{},
		&models.Comment{},
		&models.Follow{},
		&models.Message{},
		&models.Notification{},
		&models.MarketplaceItem{},
	}
}
