package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/images"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	msgImageNotFound = "Image not found"
	msgImageInUse    = "Image is still used by a story"
)

// ImageUsage reports whether a story still references an image.
type ImageUsage interface {
	ImageInUse(ctx context.Context, url string) (bool, error)
}

type ImageHandler struct {
	store images.Store
	usage ImageUsage
}

func NewImageHandler(store images.Store, usage ImageUsage) *ImageHandler {
	return &ImageHandler{store: store, usage: usage}
}

func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return respondError(c, apperror.Validation("No image uploaded"))
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, apperror.Storage(err))
	}
	defer f.Close()

	url, err := h.store.Put(c.UserContext(), owner, fh.Filename, fh.Header.Get(fiber.HeaderContentType), f)
	if errors.Is(err, images.ErrUnsupportedType) {
		return respondError(c, apperror.Validation("Only image files are allowed"))
	}
	if err != nil {
		return respondError(c, apperror.Storage(err))
	}

	slog.Info("image uploaded", "image_url", url, "size", fh.Size)
	return c.JSON(dto.ImageUploadResponse{ImageURL: url})
}

// Delete removes one of the caller's uploads that no story references.
// Unknown images and images uploaded by someone else look the same.
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	owner, err := middleware.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	url := c.Query("imageUrl")
	if url == "" {
		return respondError(c, apperror.Validation("imageUrl parameter is required"))
	}

	uploader, err := h.store.OwnerOf(url)
	if err != nil || uploader != owner {
		return c.JSON(dto.MessageResponse{Error: true, Message: msgImageNotFound})
	}

	inUse, err := h.usage.ImageInUse(c.UserContext(), url)
	if err != nil {
		return respondError(c, err)
	}
	if inUse {
		return respondError(c, apperror.Validation(msgImageInUse))
	}

	err = h.store.Delete(c.UserContext(), url)
	switch {
	case err == nil:
		return c.JSON(dto.MessageResponse{Message: "Image deleted successfully"})
	case errors.Is(err, images.ErrNotFound):
		return c.JSON(dto.MessageResponse{Error: true, Message: msgImageNotFound})
	default:
		return respondError(c, apperror.Storage(err))
	}
}
