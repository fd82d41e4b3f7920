package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"zestyy/internal/middleware"

	"gorm.io/gorm"
)

// appliedMigration is one row of schema_migrations.
type appliedMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (appliedMigration) TableName() string { return "schema_migrations" }

const createSchemaMigrationsSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Migrator applies the embedded migrations and records each one in schema_migrations.
type Migrator struct {
	db  *gorm.DB
	all []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, all: migrations}
}

// Applied returns recorded versions in ascending order. A database that has
// never been migrated reports none.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	versions := []int{}
	err := m.db.WithContext(ctx).Model(&appliedMigration{}).Order("version").Pluck("version", &versions).Error
	if err != nil {
		if isMissingTableError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return versions, nil
}

// Pending returns the migrations not yet applied, oldest first. It fails when
// the database knows versions this build does not.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkKnownVersions(applied, m.all); err != nil {
		return nil, err
	}

	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	var pending []Migration
	for _, mig := range m.all {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Up applies every pending migration, each in its own transaction, and
// returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).Exec(createSchemaMigrationsSQL).Error; err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}
	for i, mig := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.UpScript).Error; err != nil {
				return err
			}
			return tx.Create(&appliedMigration{Version: mig.Version, Name: mig.Name}).Error
		})
		if err != nil {
			return i, fmt.Errorf("apply %s: %w", mig.String(), err)
		}
		middleware.Logger.InfoContext(ctx, "Migration applied", slog.String("migration", mig.String()))
	}
	return len(pending), nil
}

// Down reverts one applied migration and forgets it.
func (m *Migrator) Down(ctx context.Context, version int) error {
	mig := GetMigrationByVersion(version)
	if mig == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if !containsVersion(applied, version) {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.DownScript).Error; err != nil {
			return err
		}
		return tx.Where("version = ?", version).Delete(&appliedMigration{}).Error
	})
	if err != nil {
		return fmt.Errorf("roll back %s: %w", mig.String(), err)
	}
	middleware.Logger.InfoContext(ctx, "Migration rolled back", slog.String("migration", mig.String()))
	return nil
}

// RunMigrations brings db up to the latest embedded migration.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	n, err := NewMigrator(db).Up(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		middleware.Logger.DebugContext(ctx, "Schema already up to date")
	}
	return nil
}

// RollbackMigration reverts the migration with the given version.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	return NewMigrator(db).Down(ctx, version)
}

func checkKnownVersions(applied []int, registered []Migration) error {
	known := make(map[int]bool, len(registered))
	for _, mig := range registered {
		known[mig.Version] = true
	}
	var unknown []int
	for _, v := range applied {
		if !known[v] {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Ints(unknown)
	labels := make([]string, len(unknown))
	for i, v := range unknown {
		labels[i] = fmt.Sprintf("%06d", v)
	}
	return fmt.Errorf("schema_migrations has versions this build does not know: %s", strings.Join(labels, ", "))
}

func containsVersion(versions []int, v int) bool {
	for _, x := range versions {
		if x == v {
			return true
		}
	}
	return false
}

func isMissingTableError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") ||
		(strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"))
}
