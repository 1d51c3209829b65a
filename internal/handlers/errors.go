package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

const msgInvalidBody = "Invalid request body"

// respondError writes err as the standard error body. Storage failures are
// logged and reported with a fixed message.
func respondError(c *fiber.Ctx, err error) error {
	e := apperror.As(err)
	status := e.Kind.HTTPStatus()

	if e.Kind == apperror.KindStorage {
		slog.Error("request failed",
			"request_id", requestID(c),
			"method", c.Method(),
			"route", c.Path(),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Kind:    string(e.Kind),
		Message: e.PublicMessage(),
	})
}

// ErrorHandler is the fiber.Config error handler. It covers errors that
// escape the handlers: unknown routes, body limits, recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message := fe.Message
		if fe.Code >= fiber.StatusInternalServerError {
			slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
			message = apperror.InternalMessage
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{
			Error:   true,
			Message: message,
		})
	}
	return respondError(c, err)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
