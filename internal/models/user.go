package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account holder. Email is stored lower-cased so the unique
// index enforces case-insensitive uniqueness.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	FullName  string    `gorm:"size:255;not null" json:"fullName"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdOn"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
