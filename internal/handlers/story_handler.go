package handlers

import (
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type StoryHandler struct {
	stories *services.StoryService
}

func NewStoryHandler(stories *services.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

func (h *StoryHandler) Create(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.StoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperror.Validation(services.MsgAllFieldsRequired))
	}

	story, err := h.stories.Create(c.UserContext(), owner, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.StoryResponse{
		Story:   *story,
		Message: "Added successfully",
	})
}

func (h *StoryHandler) List(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	stories, err := h.stories.List(c.UserContext(), owner)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StoriesResponse{Stories: stories})
}

func (h *StoryHandler) Get(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	story, err := h.stories.Get(c.UserContext(), owner, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StoryResponse{Story: *story})
}

func (h *StoryHandler) Edit(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.StoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperror.Validation(services.MsgAllFieldsRequired))
	}

	story, err := h.stories.Edit(c.UserContext(), owner, c.Params("id"), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.StoryResponse{
		Story:   *story,
		Message: "Update Successful",
	})
}

func (h *StoryHandler) Delete(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.stories.Delete(c.UserContext(), owner, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Travel Story deleted successfully"})
}

func (h *StoryHandler) SetFavourite(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.FavouriteRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperror.Validation(msgInvalidBody))
	}

	if err := h.stories.SetFavourite(c.UserContext(), owner, c.Params("id"), req.IsFavourite); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Update successful"})
}

func (h *StoryHandler) Search(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	stories, err := h.stories.Search(c.UserContext(), owner, c.Query("query"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StoriesResponse{Stories: stories})
}

func (h *StoryHandler) FilterByDate(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	stories, err := h.stories.FilterByDateRange(c.UserContext(), owner, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StoriesResponse{Stories: stories})
}
