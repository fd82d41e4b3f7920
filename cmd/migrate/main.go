// Command migrate runs schema operations and one-off data migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"zestyy/internal/config"
	"zestyy/internal/database"
	"zestyy/internal/legacy"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: migrate <up|auto|status|down VERSION|reset|backup DEST|import-json FILE|convert-tweets SOURCE_DB>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("mode=%s env=%s applied=%d pending=%d",
			status.Mode, status.Environment, len(status.AppliedVersions), len(status.PendingMigrations))
		for _, m := range status.PendingMigrations {
			log.Printf("pending: %06d_%s", m.Version, m.Name)
		}
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back migration %d", version)
	case "reset":
		if cfg.IsProduction() {
			return fmt.Errorf("refusing to reset a production database")
		}
		return database.Reset(ctx, db)
	case "backup":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate backup <dest>")
		}
		return database.Backup(ctx, db, flag.Arg(1))
	case "import-json":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate import-json <file>")
		}
		return importJSON(ctx, db, cfg, flag.Arg(1))
	case "convert-tweets":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate convert-tweets <source.db>")
		}
		return convertTweets(ctx, db, cfg, flag.Arg(1))
	default:
		return usage()
	}

	return nil
}

// importJSON loads a legacy JSON document after copying it aside.
func importJSON(ctx context.Context, db *gorm.DB, cfg *config.Config, path string) error {
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Printf("%s not found, schema is ready with nothing to import", path)
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	stats, err := legacy.ImportJSON(ctx, db, f)
	if err != nil {
		return fmt.Errorf("import failed, nothing was written: %w", err)
	}
	log.Println("import complete:")
	stats.Print(os.Stdout)

	backup := filepath.Join(filepath.Dir(path), fmt.Sprintf("db_backup_%d.json", time.Now().Unix()))
	if err := copyFile(path, backup); err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	log.Printf("backed up %s to %s", path, backup)
	return nil
}

// convertTweets copies a database using the tweet/retweet schema into this one.
func convertTweets(ctx context.Context, db *gorm.DB, cfg *config.Config, sourcePath string) error {
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	src, err := database.OpenSQLite(database.SQLiteFileDSN(sourcePath, cfg.DBBusyTimeout))
	if err != nil {
		return fmt.Errorf("open source %s: %w", sourcePath, err)
	}
	defer func() { _ = database.Close(src) }()

	stats, err := legacy.ConvertTweetSchema(ctx, src, db)
	if err != nil {
		return fmt.Errorf("conversion failed, nothing was written: %w", err)
	}
	log.Println("conversion complete:")
	stats.Print(os.Stdout)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
