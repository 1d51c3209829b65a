package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"github.com/google/uuid"
)

type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
