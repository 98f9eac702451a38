package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/database"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/testhelpers"
)

func init() {
	logger.Discard()
}

func TestRunMigrationsAutoMigratesSQLite(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	require.NoError(t, database.RunMigrations(db, "", "does-not-matter"))
	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, database.SeedSettings(ctx, db))
		require.NoError(t, database.SeedCategories(ctx, db))
	}

	var settings int64
	require.NoError(t, db.Model(&models.SiteSetting{}).Count(&settings).Error)
	assert.EqualValues(t, len(models.SettingKeys), settings)

	var categories []models.MenuCategory
	require.NoError(t, db.Order("sort_order").Find(&categories).Error)
	require.Len(t, categories, len(database.DefaultCategories))
	for i, category := range categories {
		assert.Equal(t, database.DefaultCategories[i].Slug, category.Slug)
		assert.True(t, category.IsActive)
	}
}

func TestSeedKeepsExistingValues(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, database.SeedSettings(ctx, db))
	require.NoError(t, db.Model(&models.SiteSetting{}).Where("key = ?", "phone").Update("value", "+34 600 000 000").Error)
	require.NoError(t, database.SeedSettings(ctx, db))

	var phone models.SiteSetting
	require.NoError(t, db.Where("key = ?", "phone").First(&phone).Error)
	assert.Equal(t, "+34 600 000 000", phone.Value)
}

func TestHealthCheck(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestPostgresMigrationsAndSeed(t *testing.T) {
	db := testhelpers.SetupPostgresContainer(t)
	ctx := context.Background()

	require.NoError(t, database.SeedSettings(ctx, db))
	require.NoError(t, database.SeedCategories(ctx, db))

	var settings int64
	require.NoError(t, db.Model(&models.SiteSetting{}).Count(&settings).Error)
	assert.EqualValues(t, len(models.SettingKeys), settings)

	var categories int64
	require.NoError(t, db.Model(&models.MenuCategory{}).Count(&categories).Error)
	assert.EqualValues(t, len(database.DefaultCategories), categories)
}
