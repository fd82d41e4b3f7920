// Package database handles database connections and migrations.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zestyy/internal/config"
	"zestyy/internal/middleware"
	"zestyy/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CustomGormLogger integrates GORM with slog
type CustomGormLogger struct {
	logger *slog.Logger
	Config logger.Config
}

// NewGormLogger returns a GORM logger writing through the application logger.
func NewGormLogger(level logger.LogLevel) *CustomGormLogger {
	return &CustomGormLogger{
		logger: middleware.Logger,
		Config: logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	}
}

// LogMode sets the logging level and returns a new interface instance.
func (l *CustomGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newlogger := *l
	newlogger.Config.LogLevel = level
	return &newlogger
}

// Info logs an informational message with context.
func (l *CustomGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Warn logs a warning message with context.
func (l *CustomGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace logs SQL statements that failed or ran slower than the threshold.
func (l *CustomGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Config.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.Config.LogLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "GORM query error",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
	case elapsed > l.Config.SlowThreshold && l.Config.SlowThreshold != 0 && l.Config.LogLevel >= logger.Warn:
		l.logger.WarnContext(ctx, "GORM slow query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	case l.Config.LogLevel >= logger.Info:
		l.logger.InfoContext(ctx, "GORM query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

// ConnectOptions tunes Connect for tools that manage the schema themselves.
type ConnectOptions struct {
	ApplySchema bool
}

// Connect opens the configured store and brings its schema up to date.
// The caller owns the handle and must release it with Close.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return ConnectWithOptions(cfg, ConnectOptions{ApplySchema: true})
}

// ConnectWithOptions opens the configured store.
func ConnectWithOptions(cfg *config.Config, opts ConnectOptions) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.DBDriver {
	case "postgres":
		db, err = Open(postgres.Open(PostgresDSN(cfg)))
		if err == nil {
			configurePostgresPool(db)
		}
	case "sqlite", "":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create database directory: %w", mkErr)
			}
		}
		db, err = OpenSQLite(SQLiteFileDSN(cfg.DBPath, cfg.DBBusyTimeout))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := observability.InstrumentGorm(db); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("instrument database: %w", err)
	}
	middleware.Logger.Info("Database connected successfully", slog.String("driver", db.Dialector.Name()))

	if opts.ApplySchema {
		if err := ApplySchema(context.Background(), db, cfg); err != nil {
			_ = Close(db)
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}

// Open wraps gorm.Open with the application's logger and UTC clock.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a SQLite database on a single connection so the engine
// serializes every writer.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := Open(sqlite.Open(dsn))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}

// SQLiteFileDSN builds a DSN for an on-disk database with foreign keys enforced.
func SQLiteFileDSN(path string, busyTimeoutMS int) string {
	if busyTimeoutMS <= 0 {
		busyTimeoutMS = 5000
	}
	q := url.Values{}
	q.Set("_foreign_keys", "1")
	q.Set("_busy_timeout", fmt.Sprintf("%d", busyTimeoutMS))
	q.Set("_journal_mode", "WAL")
	return "file:" + path + "?" + q.Encode()
}

// SQLiteMemoryDSN builds a DSN for a named in-memory database.
func SQLiteMemoryDSN(name string) string {
	return "file:" + url.PathEscape(name) + "?mode=memory&cache=shared&_foreign_keys=1"
}

// PostgresDSN builds a key/value connection string from cfg.
func PostgresDSN(cfg *config.Config) string {
	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		sslMode,
	)
}

func configurePostgresPool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsSQLite reports whether db talks to SQLite.
func IsSQLite(db *gorm.DB) bool {
	return strings.EqualFold(db.Dialector.Name(), "sqlite")
}
