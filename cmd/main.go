package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"moviematch/internal/config"
	"moviematch/internal/database"
	"moviematch/internal/handler"
	"moviematch/internal/middleware"
	"moviematch/internal/openai"
	"moviematch/internal/repository"
	"moviematch/internal/service"
	"moviematch/internal/tmdb"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal; rate limiting is skipped without it)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without rate limiting", "error", err)
	}

	// External clients, constructed once and injected everywhere
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL)
	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)

	// Initialize layers
	userRepo := repository.NewUserRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	librarySvc := service.NewLibraryService(libraryRepo)
	movieSvc := service.NewMovieService(tmdbClient)
	recSvc := service.NewRecommendationService(userRepo, libraryRepo, tmdbClient, openaiClient)

	authHandler := handler.NewAuthHandler(authSvc)
	libraryHandler := handler.NewLibraryHandler(librarySvc)
	movieHandler := handler.NewMovieHandler(movieSvc)
	recHandler := handler.NewRecommendationHandler(recSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MovieMatch API",
		ServerHeader: "MovieMatch",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: "internal error"})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Split(cfg.AllowedOrigins, ","),
	}))

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)

	// API routes
	api := app.Group("/api")
	if rdb != nil {
		api.Use(middleware.NewRateLimiter(rdb, 100, 60).Handler())
	}

	api.Get("/health", handler.Health)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", authHandler.Me, requireAuth)

	movies := api.Group("/movies")
	movies.Get("/search", movieHandler.Search)
	movies.Get("/popular", movieHandler.Popular)
	movies.Get("/:id", movieHandler.Detail)

	library := api.Group("/library", requireAuth)
	library.Get("", libraryHandler.List)
	library.Post("/add", libraryHandler.Add)
	library.Delete("/remove/:movie_id", libraryHandler.Remove)

	api.Post("/recommendations", recHandler.Recommend, requireAuth)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down moviematch api...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting moviematch api", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
