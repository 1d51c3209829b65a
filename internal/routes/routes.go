package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/tokens"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Stories *handlers.StoryHandler
	Images  *handlers.ImageHandler
	Health  *handlers.HealthHandler
}

// Setup mounts every route on app. Zero rate limits disable limiting.
func Setup(app *fiber.App, cfg *config.Config, tokenSvc *tokens.Service, m *metrics.Metrics, h Handlers) {
	if m != nil {
		app.Get("/metrics", m.Handler())
	}
	app.Get("/health", h.Health.Check)

	app.Static("/uploads", cfg.UploadDir)
	app.Static("/assets", cfg.AssetsDir)

	// General rate limiter: 60 req/min per IP by default
	if cfg.RateLimitPerMin > 0 {
		app.Use(newLimiter(cfg.RateLimitPerMin))
	}

	// Auth-specific rate limit (stricter)
	authLimit := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.AuthRateLimitPerMin > 0 {
		authLimit = newLimiter(cfg.AuthRateLimitPerMin)
	}
	app.Post("/create-account", authLimit, h.Auth.Register)
	app.Post("/login", authLimit, h.Auth.Login)

	// Protected routes (bearer token required)
	gate := middleware.AuthGate(tokenSvc)
	app.Get("/get-user", gate, h.Auth.GetUser)

	app.Post("/add-travel-story", gate, h.Stories.Create)
	app.Get("/get-all-stories", gate, h.Stories.List)
	app.Get("/get-story/:id", gate, h.Stories.Get)
	app.Put("/edit-story/:id", gate, h.Stories.Edit)
	app.Delete("/delete-story/:id", gate, h.Stories.Delete)
	app.Put("/update-is-favourite/:id", gate, h.Stories.SetFavourite)
	app.Get("/search", gate, h.Stories.Search)
	app.Get("/travel-stories/filter", gate, h.Stories.FilterByDate)

	app.Post("/image-upload", gate, h.Images.Upload)
	app.Delete("/delete-image", gate, h.Images.Delete)
}

func newLimiter(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
