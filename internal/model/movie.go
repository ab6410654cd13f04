package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movie represents a single catalog entry, always owned by exactly one user.
type Movie struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title      string    `json:"title" gorm:"size:255;not null"`
	Director   string    `json:"director" gorm:"size:255"`
	Year       int       `json:"year"`
	PosterURL  string    `json:"posterUrl" gorm:"size:512"`
	IsFavorite bool      `json:"isFavorite" gorm:"not null;default:false"`
	Rating     int       `json:"rating" gorm:"not null;default:0"`
	OwnerID    uuid.UUID `json:"ownerId" gorm:"type:char(36);not null;index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Relations
	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
