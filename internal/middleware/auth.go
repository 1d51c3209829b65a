package middleware

import (
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/tokens"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenLocalsKey  = "user"
	userIDLocalsKey = "user_id"
)

// AuthGate admits a request only with a valid "Authorization: Bearer" token
// and stores the resolved user id for UserID. Every rejection is the same
// 401 response.
func AuthGate(tokenSvc *tokens.Service) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:     tokenSvc.Keyfunc,
		Claims:      &tokens.Claims{},
		AuthScheme:  "Bearer",
		TokenLookup: "header:" + fiber.HeaderAuthorization,
		ContextKey:  tokenLocalsKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenLocalsKey).(*jwt.Token)
			id, err := tokens.Identity(token)
			if err != nil {
				return unauthorized(c)
			}
			c.Locals(userIDLocalsKey, id)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return unauthorized(c)
		},
	})
}

func unauthorized(c *fiber.Ctx) error {
	e := apperror.Unauthorized()
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Kind:    string(e.Kind),
		Message: e.Message,
	})
}

// UserID returns the identity resolved by AuthGate. Handlers mounted
// without the gate always get an UNAUTHORIZED error.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(userIDLocalsKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, apperror.Unauthorized()
	}
	return id, nil
}
