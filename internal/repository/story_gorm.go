package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStoryRepository struct {
	db *gorm.DB
}

func NewGormStoryRepository(db *gorm.DB) *GormStoryRepository {
	return &GormStoryRepository{db: db}
}

func (r *GormStoryRepository) Create(ctx context.Context, story *models.Story) error {
	if err := r.db.WithContext(ctx).Create(story).Error; err != nil {
		return fmt.Errorf("create story: %w", err)
	}
	return nil
}

func (r *GormStoryRepository) FindOwned(ctx context.Context, owner, id uuid.UUID) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Scopes(ForOwner(owner)).
		Where("id = ?", id).
		Take(&story).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find story: %w", err)
	}
	return &story, nil
}

func (r *GormStoryRepository) ListOwned(ctx context.Context, q Query) ([]models.Story, error) {
	tx := r.db.WithContext(ctx).Scopes(ForOwner(q.OwnerID))

	if q.Text != "" {
		p := likePattern(q.Text)
		tx = tx.Where(
			"(title ILIKE ? OR body ILIKE ? OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(locations) AS loc WHERE loc ILIKE ?))",
			p, p, p,
		)
	}
	if q.Visited != nil {
		tx = tx.Where("visited_date BETWEEN ? AND ?", q.Visited.From, q.Visited.To)
	}

	stories := make([]models.Story, 0)
	if err := tx.Scopes(FavouritesFirst).Find(&stories).Error; err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

func (r *GormStoryRepository) UpdateOwned(ctx context.Context, story *models.Story) (*models.Story, error) {
	var updated models.Story
	res := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Scopes(ForOwner(story.OwnerID)).
		Where("id = ?", story.ID).
		Updates(map[string]interface{}{
			"title":        story.Title,
			"body":         story.Body,
			"locations":    story.Locations,
			"image_url":    story.ImageURL,
			"visited_date": story.VisitedDate,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update story: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &updated, nil
}

func (r *GormStoryRepository) DeleteOwned(ctx context.Context, owner, id uuid.UUID) (*models.Story, error) {
	var deleted []models.Story
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Scopes(ForOwner(owner)).
		Where("id = ?", id).
		Delete(&deleted)
	if res.Error != nil {
		return nil, fmt.Errorf("delete story: %w", res.Error)
	}
	if res.RowsAffected == 0 || len(deleted) == 0 {
		return nil, ErrNotFound
	}
	return &deleted[0], nil
}

// SetFavourite relies on postgres reporting matched rows, so setting the
// flag to its current value still counts as found.
func (r *GormStoryRepository) SetFavourite(ctx context.Context, owner, id uuid.UUID, favourite bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Story{}).
		Scopes(ForOwner(owner)).
		Where("id = ?", id).
		Update("is_favourite", favourite)
	if res.Error != nil {
		return fmt.Errorf("set favourite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormStoryRepository) ImageInUse(ctx context.Context, url string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Story{}).
		Where("image_url = ?", url).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count image references: %w", err)
	}
	return n > 0, nil
}
