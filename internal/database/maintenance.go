package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"zestyy/internal/middleware"

	"gorm.io/gorm"
)

// resetOrder lists tables children first so foreign keys never block a delete.
var resetOrder = []string{
	"notifications",
	"messages",
	"follows",
	"comments",
	"reposts",
	"likes",
	"marketplace",
	"posts",
	"users",
}

// Reset deletes every row from every domain table in one transaction.
func Reset(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range resetOrder {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		middleware.Logger.InfoContext(ctx, "Database reset", slog.Int("tables", len(resetOrder)))
		return nil
	})
}

// ErrBackupUnsupported is returned by Backup for drivers without an online copy command.
var ErrBackupUnsupported = errors.New("backup is only supported for sqlite")

// Backup writes a consistent copy of a SQLite database to dest.
func Backup(ctx context.Context, db *gorm.DB, dest string) error {
	if !IsSQLite(db) {
		return ErrBackupUnsupported
	}
	if err := db.WithContext(ctx).Exec("VACUUM INTO ?", dest).Error; err != nil {
		return fmt.Errorf("backup to %s: %w", dest, err)
	}
	middleware.Logger.InfoContext(ctx, "Database backup written", slog.String("path", dest))
	return nil
}
