package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForOwner returns a GORM scope that filters by owner_id.
func ForOwner(owner uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", owner)
	}
}

// FavouritesFirst orders favourites before the rest and keeps creation
// order otherwise.
func FavouritesFirst(db *gorm.DB) *gorm.DB {
	return db.Order("is_favourite DESC").Order("created_at ASC").Order("id ASC")
}
