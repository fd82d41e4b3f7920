// Command seed fills the database with demo accounts and generated content.
package main

import (
	"context"
	"flag"
	"log"

	"zestyy/internal/config"
	"zestyy/internal/database"
	"zestyy/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	users := flag.Int("users", defaults.ExtraUsers, "Number of generated users on top of the demo accounts")
	posts := flag.Int("posts", defaults.PostsPerUser, "Posts per generated user")
	items := flag.Int("items", defaults.Items, "Marketplace listings to create")
	clean := flag.Bool("clean", defaults.Clean, "Clean database before seeding")
	fakerSeed := flag.Int64("seed", 0, "Fixed faker seed for reproducible output")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	log.Printf("Seeding: %d users, %d posts each, %d items, clean=%v", *users, *posts, *items, *clean)

	res, err := seed.NewSeeder(db, seed.Options{
		ExtraUsers:   *users,
		PostsPerUser: *posts,
		Items:        *items,
		Clean:        *clean,
		Seed:         *fakerSeed,
	}).Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d posts, %d marketplace items", len(res.Users), len(res.Posts), len(res.Items))
	log.Printf("Demo accounts use the password: %s", seed.DemoPassword)
}
