package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/images"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/tokens"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("json", "info")
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON or tinted text to stdout)
	baseHandler := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	// Storage
	var (
		users       repository.UserRepository
		stories     repository.StoryRepository
		ping        func(ctx context.Context) error
		dbLogs      *logging.DBHandler
		cleanupDone = make(chan struct{})
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}

		// PostgreSQL log handler (ERROR+ async batch)
		dbLogs = logging.NewDBHandler(database.DB)
		slog.SetDefault(slog.New(logging.NewMultiHandler(baseHandler, dbLogs)))

		// Log cleanup (30-day retention)
		logging.StartCleanup(database.DB, cleanupDone)

		users = repository.NewGormUserRepository(database.DB)
		stories = repository.NewGormStoryRepository(database.DB)
		ping = database.Ping
	case config.DriverMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		users = repository.NewMemoryUserRepository()
		stories = repository.NewMemoryStoryRepository()
	}

	m := metrics.New()

	// Image storage
	var store images.Store
	switch cfg.ImageStore {
	case config.ImageStoreS3:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s3Store, err := images.NewS3Store(ctx, images.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		cancel()
		if err != nil {
			slog.Error("s3 image store init failed", "error", err)
			os.Exit(1)
		}
		store = s3Store
	default:
		localStore, err := images.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			slog.Error("local image store init failed", "dir", cfg.UploadDir, "error", err)
			os.Exit(1)
		}
		store = localStore
	}

	releaser := images.NewReleaser(store, images.ReleaserOptions{
		Retries:   cfg.ImageReleaseRetries,
		Backoff:   500 * time.Millisecond,
		OnFailure: m.ImageReleaseFailed,
	})

	// Services
	tokenSvc := tokens.NewService(cfg.AccessTokenSecret, cfg.AccessTokenTTL)
	authService := services.NewAuthService(users, tokenSvc)
	storyService := services.NewStoryService(stories, releaser, cfg.PlaceholderImageURL).WithMetrics(m)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(m.Middleware())

	// Routes
	routes.Setup(app, cfg, tokenSvc, m, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Stories: handlers.NewStoryHandler(storyService),
		Images:  handlers.NewImageHandler(store, storyService),
		Health:  handlers.NewHealthHandler(ping),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "storage", cfg.StorageDriver, "images", cfg.ImageStore)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Let queued image deletions finish
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := releaser.Close(ctx); err != nil {
		slog.Warn("image releaser did not drain", "error", err)
	}
	cancel()

	close(cleanupDone)
	if dbLogs != nil {
		dbLogs.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
