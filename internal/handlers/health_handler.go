package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler reports "db":"disabled" when ping is nil.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "disabled"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		dbStatus = "ok"
		if err := h.ping(ctx); err != nil {
			slog.Error("health check: database ping failed", "error", err)
			dbStatus = "unhealthy"
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
