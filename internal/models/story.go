package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Story is a travel journal entry. OwnerID is set once on create and every
// read or write afterwards is scoped by (ID, OwnerID).
type Story struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"_id"`
	OwnerID     uuid.UUID                   `gorm:"type:uuid;not null;index:idx_stories_owner_fav" json:"userId"`
	Title       string                      `gorm:"type:text;not null" json:"title"`
	Body        string                      `gorm:"type:text;not null" json:"story"`
	Locations   datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"visitedLocation"`
	ImageURL    string                      `gorm:"type:text;not null" json:"imageUrl"`
	VisitedDate time.Time                   `gorm:"not null;index" json:"visitedDate"`
	IsFavourite bool                        `gorm:"not null;index:idx_stories_owner_fav" json:"isFavourite"`
	CreatedAt   time.Time                   `gorm:"index" json:"createdOn"`
}

func (Story) TableName() string { return "travel_stories" }

// Clone returns a copy that shares no slices with s.
func (s Story) Clone() Story {
	c := s
	if s.Locations != nil {
		c.Locations = append(datatypes.JSONSlice[string]{}, s.Locations...)
	}
	return c
}

func (s *Story) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
