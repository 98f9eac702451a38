package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
)

// DefaultCategories are the menu sections the site launches with.
var DefaultCategories = []models.MenuCategory{
	{Slug: "desayunos", Label: "Desayunos", SortOrder: 1, IsActive: true},
	{Slug: "comidas", Label: "Comidas & Cenas", SortOrder: 2, IsActive: true},
	{Slug: "bebidas", Label: "Bebidas", SortOrder: 3, IsActive: true},
	{Slug: "postres", Label: "Postres", SortOrder: 4, IsActive: true},
}

// SeedSettings inserts an empty row for every recognized setting key that is
// missing. Existing values are left untouched.
func SeedSettings(ctx context.Context, db *gorm.DB) error {
	for _, key := range models.SettingKeys {
		setting := models.SiteSetting{Key: key}
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	return nil
}

// SeedCategories inserts the default categories whose slug is not taken yet.
func SeedCategories(ctx context.Context, db *gorm.DB) error {
	for _, category := range DefaultCategories {
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Slug, err)
		}
	}
	return nil
}
