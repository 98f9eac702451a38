package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/testhelpers"
)

func setupSettingsService(t *testing.T) (*service.SettingsService, *gorm.DB) {
	logger.Discard()
	db := testhelpers.SetupTestDatabase(t)
	testhelpers.SeedSiteData(t, db)
	return service.NewSettingsService(db), db
}

func TestSettingsUpdate(t *testing.T) {
	svc, _ := setupSettingsService(t)
	ctx := context.Background()

	values, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, values, len(models.SettingKeys))
	assert.Equal(t, "", values[models.SettingPhone])

	values, err = svc.Update(ctx, map[string]string{
		models.SettingPhone:          "+34 911 222 333",
		models.SettingScheduleSunday: "Cerrado",
	})
	require.NoError(t, err)
	assert.Equal(t, "+34 911 222 333", values[models.SettingPhone])
	assert.Equal(t, "Cerrado", values[models.SettingScheduleSunday])
	assert.Equal(t, "", values[models.SettingAddress])
}

func TestSettingsRejectUnknownKeyBeforeWriting(t *testing.T) {
	svc, _ := setupSettingsService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, map[string]string{
		models.SettingPhone: "600 000 000",
		"instagram":         "@bocados",
	})
	assert.ErrorIs(t, err, service.ErrUnknownSetting)

	values, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", values[models.SettingPhone])
	_, exists := values["instagram"]
	assert.False(t, exists)
}

func TestSettingsMissingRowStopsRemainingWrites(t *testing.T) {
	svc, db := setupSettingsService(t)
	ctx := context.Background()

	require.NoError(t, db.Where("key = ?", models.SettingAddress).Delete(&models.SiteSetting{}).Error)

	_, err := svc.Update(ctx, map[string]string{
		models.SettingPhone:          "600 000 000",
		models.SettingAddress:        "Calle Mayor 1",
		models.SettingScheduleSunday: "Cerrado",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	values, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "600 000 000", values[models.SettingPhone], "keys before the failure are written")
	assert.Equal(t, "", values[models.SettingScheduleSunday], "keys after the failure are not")
	_, exists := values[models.SettingAddress]
	assert.False(t, exists, "missing rows are never created")
}
