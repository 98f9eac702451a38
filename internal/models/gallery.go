package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GalleryImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"`
	AltText   *string   `gorm:"type:text" json:"alt_text"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *GalleryImage) BeforeCreate(tx *gorm.DB) error {
	assignID(&g.ID)
	return nil
}

func (GalleryImage) TableName() string {
	return "gallery_images"
}
