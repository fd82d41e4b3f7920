package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"zestyy/internal/config"
	"zestyy/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeSQL  = "sql"
	SchemaModeAuto = "auto"
)

// SchemaStatus describes what ApplySchema would do against db.
type SchemaStatus struct {
	Mode              string
	Environment       string
	AppliedVersions   []int
	PendingMigrations []Migration
}

// notificationDedupIndexSQL backs the one-notification-per-event rule when
// the schema comes from AutoMigrate instead of the SQL files.
const notificationDedupIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_dedup
ON notifications (user_id, type, actor_id, (COALESCE(post_id, '')))`

func normalizedSchemaMode(cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		return SchemaModeSQL
	}
	return mode
}

func schemaPolicy(cfg *config.Config) (string, error) {
	mode := normalizedSchemaMode(cfg)
	switch mode {
	case SchemaModeSQL:
		return mode, nil
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return "", fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

func runAutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(notificationDedupIndexSQL).Error
}

// ApplySchema brings db up to date using the configured schema mode.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	mode, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}

	if mode == SchemaModeAuto {
		middleware.Logger.Info("Running GORM AutoMigrate", slog.String("env", cfg.Env))
		if err := runAutoMigrate(ctx, db); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		return nil
	}

	if err := RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run sql migrations: %w", err)
	}
	return nil
}

// GetSchemaStatus lists applied and pending migrations without changing anything.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	mode, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{Mode: mode, Environment: cfg.Env}
	if mode != SchemaModeSQL {
		return status, nil
	}

	migrator := NewMigrator(db)
	if status.AppliedVersions, err = migrator.Applied(ctx); err != nil {
		return nil, err
	}
	if status.PendingMigrations, err = migrator.Pending(ctx); err != nil {
		return nil, err
	}
	return status, nil
}
