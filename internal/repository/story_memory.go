package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryStoryRepository keeps stories in insertion order behind a mutex.
// It evaluates Query in Go and is used by tests and STORAGE_DRIVER=memory.
type MemoryStoryRepository struct {
	mu      sync.RWMutex
	stories []models.Story
	now     func() time.Time
}

func NewMemoryStoryRepository() *MemoryStoryRepository {
	return &MemoryStoryRepository{now: time.Now}
}

func (r *MemoryStoryRepository) Create(_ context.Context, story *models.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	if story.CreatedAt.IsZero() {
		story.CreatedAt = r.now()
	}
	r.stories = append(r.stories, story.Clone())
	return nil
}

func (r *MemoryStoryRepository) FindOwned(_ context.Context, owner, id uuid.UUID) (*models.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(owner, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	s := r.stories[i].Clone()
	return &s, nil
}

func (r *MemoryStoryRepository) ListOwned(_ context.Context, q Query) ([]models.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Story, 0)
	for i := range r.stories {
		if q.Matches(&r.stories[i]) {
			out = append(out, r.stories[i].Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsFavourite && !out[j].IsFavourite
	})
	return out, nil
}

func (r *MemoryStoryRepository) UpdateOwned(_ context.Context, story *models.Story) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(story.OwnerID, story.ID)
	if i < 0 {
		return nil, ErrNotFound
	}
	cur := &r.stories[i]
	cur.Title = story.Title
	cur.Body = story.Body
	cur.Locations = story.Clone().Locations
	cur.ImageURL = story.ImageURL
	cur.VisitedDate = story.VisitedDate

	s := cur.Clone()
	return &s, nil
}

func (r *MemoryStoryRepository) DeleteOwned(_ context.Context, owner, id uuid.UUID) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(owner, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	deleted := r.stories[i]
	r.stories = append(r.stories[:i], r.stories[i+1:]...)
	return &deleted, nil
}

func (r *MemoryStoryRepository) SetFavourite(_ context.Context, owner, id uuid.UUID, favourite bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(owner, id)
	if i < 0 {
		return ErrNotFound
	}
	r.stories[i].IsFavourite = favourite
	return nil
}

func (r *MemoryStoryRepository) ImageInUse(_ context.Context, url string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.stories {
		if r.stories[i].ImageURL == url {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryStoryRepository) indexOf(owner, id uuid.UUID) int {
	for i := range r.stories {
		if r.stories[i].ID == id && r.stories[i].OwnerID == owner {
			return i
		}
	}
	return -1
}
