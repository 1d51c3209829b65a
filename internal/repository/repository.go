// Package repository persists users and stories. Every story operation is
// scoped by owner; a story owned by someone else is reported as ErrNotFound.
package repository

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	FindOwned(ctx context.Context, owner, id uuid.UUID) (*models.Story, error)
	ListOwned(ctx context.Context, q Query) ([]models.Story, error)
	// UpdateOwned overwrites the editable fields of the story identified by
	// (story.ID, story.OwnerID) and returns the stored result.
	UpdateOwned(ctx context.Context, story *models.Story) (*models.Story, error)
	// DeleteOwned removes the story and returns it as it was before removal.
	DeleteOwned(ctx context.Context, owner, id uuid.UUID) (*models.Story, error)
	SetFavourite(ctx context.Context, owner, id uuid.UUID, favourite bool) error
	// ImageInUse reports whether any story, whoever owns it, references url.
	ImageInUse(ctx context.Context, url string) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

var (
	_ StoryRepository = (*GormStoryRepository)(nil)
	_ StoryRepository = (*MemoryStoryRepository)(nil)
	_ UserRepository  = (*GormUserRepository)(nil)
	_ UserRepository  = (*MemoryUserRepository)(nil)
)
