package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuCategory groups menu items. Slug is derived from the label when the
// category is created and never changes afterwards; items reference it.
type MenuCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Label     string    `gorm:"size:100;not null" json:"label"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (MenuCategory) TableName() string {
	return "menu_categories"
}

// MenuItem is a dish or drink listed under a category slug.
type MenuItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Category    string    `gorm:"size:100;not null;index" json:"category"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       *float64  `gorm:"type:numeric(10,2)" json:"price"`
	ImageURL    *string   `gorm:"type:text" json:"image_url"`
	SortOrder   int       `gorm:"not null" json:"sort_order"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *MenuItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// Slugify lower-cases label, turns each run of whitespace into a single
// hyphen and drops every character that is not a-z, 0-9 or a hyphen.
func Slugify(label string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
