// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"witter/internal/cache"
	"witter/internal/config"
	"witter/internal/database"
	"witter/internal/middleware"
	"witter/internal/models"
	"witter/internal/repository"
	"witter/internal/service"
	"witter/internal/validation"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
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
	userRepo       repository.UserRepository
	followRepo     repository.FollowRepository
	weetRepo       repository.WeetRepository
	userService    *service.UserService
	weetService    *service.WeetService
	checker        *validation.Checker
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	weetRepo := repository.NewWeetRepository(db)

	prom := middleware.InitMetrics("witter-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		followRepo:     followRepo,
		weetRepo:       weetRepo,
	}
	server.userService = service.NewUserService(userRepo, followRepo, cfg.JWTSecret)
	server.weetService = service.NewWeetService(weetRepo, userRepo)
	server.checker = validation.NewChecker(userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and handle
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Distributed tracing span per request
	app.Use(middleware.TracingMiddleware())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c,
				fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later."))
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/api/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Witter Backend Metrics Dashboard",
	}))

	// Account routes
	account := app.Group("/account")
	account.Post("/sign-up", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.SignUp)
	account.Post("/log-in", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.LogIn)

	// Profile routes; the listing and edit routes are specific, the bare
	// /:handle route is generic and registered last.
	profile := app.Group("/profile", s.RequireSignedIn())
	profile.Put("/:handle/edit", s.RequireOwner(), s.EditProfile)
	profile.Delete("/:handle/edit", s.RequireOwner(), s.DeleteProfile)
	profile.Post("/:handle/weets", s.GetProfileWeets)
	profile.Post("/:handle/reweets", s.GetProfileReweets)
	profile.Post("/:handle/favorites", s.GetProfileFavorites)
	profile.Post("/:handle/tabs", s.GetProfileTabs)
	profile.Post("/:handle/following", s.GetProfileFollowing)
	profile.Post("/:handle/followers", s.GetProfileFollowers)
	profile.Post("/:handle", s.GetProfile)

	// User routes
	users := app.Group("/users", s.RequireSignedIn())
	users.Post("/:handle/follow", s.FollowUser)
	users.Post("/:handle/unfollow", s.UnfollowUser)
	users.Post("/:search", s.SearchUsers)

	// Weet routes
	weets := app.Group("/weets", s.RequireSignedIn())
	weets.Post("/", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_weet"), s.CreateWeet)
	weets.Post("/feed", s.GetFeed)
	weets.Post("/:id/reweet", s.ReactToWeet(models.ReactionReweet))
	weets.Post("/:id/unreweet", s.UnreactToWeet(models.ReactionReweet))
	weets.Post("/:id/favorite", s.ReactToWeet(models.ReactionFavorite))
	weets.Post("/:id/unfavorite", s.UnreactToWeet(models.ReactionFavorite))
	weets.Post("/:id/tab", s.ReactToWeet(models.ReactionTab))
	weets.Post("/:id/untab", s.UnreactToWeet(models.ReactionTab))
	weets.Put("/:id", s.RequireAuthor(), s.EditWeet)
	weets.Delete("/:id", s.RequireAuthor(), s.DeleteWeet)
	weets.Post("/:id", s.GetWeet)

	// Validation report routes
	validate := app.Group("/validate")
	validate.Post("/sign-up", s.ValidateSignUp)
	validate.Post("/update-profile/:handle", s.RequireSignedIn(), s.RequireOwner(), s.ValidateUpdateProfile)

	// Unmatched routes get the standard error body
	app.Use(func(c *fiber.Ctx) error {
		return models.RespondWithError(c,
			fiber.NewError(fiber.StatusNotFound, "Route not found"))
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; the app degrades to no-cache without it.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:      "Witter API",
		ErrorHandler: models.RespondWithError,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
