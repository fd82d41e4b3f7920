// Package server contains HTTP and WebSocket handlers for the Zestyy API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zestyy/internal/cache"
	"zestyy/internal/config"
	"zestyy/internal/database"
	"zestyy/internal/featureflags"
	"zestyy/internal/middleware"
	"zestyy/internal/models"
	"zestyy/internal/notifications"
	"zestyy/internal/repository"
	"zestyy/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager

	users         *service.UserService
	posts         *service.PostService
	engagement    *service.EngagementService
	follows       *service.FollowService
	comments      *service.CommentService
	notifications *service.NotificationService
	messages      *service.MessageService
	marketplace   *service.MarketplaceService
}

// NewServer connects to the database and Redis described by cfg.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.Connect(context.Background(), cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; realtime delivery and rate limiting are then off.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("zestyy-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	var publisher service.Publisher
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
		s.hub = notifications.NewHub()
		publisher = s.notifier
	}

	store := repository.NewStore(db)
	s.notifications = service.NewNotificationService(store, publisher)
	s.users = service.NewUserService(store)
	s.posts = service.NewPostService(store)
	s.engagement = service.NewEngagementService(store, s.notifications)
	s.follows = service.NewFollowService(store, s.notifications)
	s.comments = service.NewCommentService(store, s.notifications)
	s.messages = service.NewMessageService(store, publisher)
	s.marketplace = service.NewMarketplaceService(store)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || !s.config.IsProduction()
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	auth := middleware.AuthRequired
	optional := middleware.OptionalAuth

	api.Get("/feature-flags", optional, s.GetFeatureFlags)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	authRoutes.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	posts := api.Group("/posts")
	posts.Get("/", optional, s.GetFeed)
	posts.Post("/", auth, middleware.RateLimit(s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/like", auth, s.ToggleLike)
	posts.Post("/:id/repost", auth, s.ToggleRepost)
	posts.Get("/:id/likes", s.GetLikers)
	posts.Get("/:id/reposts", s.GetReposters)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", auth, middleware.RateLimit(s.redis, 20, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id", optional, s.GetPost)
	posts.Delete("/:id", auth, s.DeletePost)

	users := api.Group("/users")
	users.Get("/filter", auth, s.FilterUsers)
	users.Get("/profile/:username", optional, s.GetProfile)
	users.Get("/me", auth, s.GetMe)
	users.Put("/me", auth, s.UpdateMe)
	users.Get("/:id/posts", optional, s.GetUserPosts)
	users.Get("/:id/stats", s.GetUserStats)
	users.Post("/:id/follow", auth, s.ToggleFollow)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)

	messages := api.Group("/messages", auth)
	messages.Get("/", s.GetConversations)
	messages.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "send_message"), s.SendMessage)
	messages.Get("/conversations/:id", s.GetMessages)
	messages.Post("/conversations/:id/read", s.MarkMessagesRead)

	notes := api.Group("/notifications", auth)
	notes.Get("/", s.GetNotifications)
	notes.Get("/unread-count", s.GetUnreadCount)
	notes.Post("/read", s.MarkNotificationsRead)

	market := api.Group("/marketplace", optional, s.FeatureRequired(featureflags.Marketplace))
	market.Get("/", s.ListItems)
	market.Post("/", auth, s.CreateItem)
	market.Get("/:id", s.GetItem)
	market.Put("/:id", auth, s.UpdateItem)
	market.Delete("/:id", auth, s.DeleteItem)

	api.Get("/ws", middleware.WebSocketAuthRequired, s.WebSocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the database and Redis state. Redis is optional, so
// only a database failure makes the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds a Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Zestyy API",
		BodyLimit: 4 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start wires realtime delivery and listens until the app is shut down.
func (s *Server) Start() error {
	s.shutdownCtx, s.shutdownFn = context.WithCancel(context.Background())
	s.app = s.NewApp()

	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.Listen(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("realtime delivery unavailable", slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
