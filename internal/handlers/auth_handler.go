package handlers

import (
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperror.Validation(msgInvalidBody))
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	resp.Message = "Registration Successful"
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperror.Validation(msgInvalidBody))
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	resp.Message = "Login Successful"
	return c.JSON(resp)
}

func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.CurrentUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"message": "",
	})
}
