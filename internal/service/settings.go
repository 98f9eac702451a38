package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// List returns the stored settings keyed by name.
func (s *SettingsService) List(ctx context.Context) (map[string]string, error) {
	var settings []models.SiteSetting
	if err := s.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	values := make(map[string]string, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	return values, nil
}

// Update writes each given value to its existing row, one key at a time in
// the canonical key order. Unknown keys are rejected before anything is
// written. Rows are never created here; a missing row is reported as not
// found and stops the remaining writes.
func (s *SettingsService) Update(ctx context.Context, values map[string]string) (map[string]string, error) {
	for key := range values {
		if !models.IsSettingKey(key) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
		}
	}

	for _, key := range models.SettingKeys {
		value, ok := values[key]
		if !ok {
			continue
		}

		result := s.db.WithContext(ctx).
			Model(&models.SiteSetting{}).
			Where(map[string]interface{}{"key": key}).
			Update("value", value)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update setting %s: %w", key, result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("setting %s: %w", key, ErrNotFound)
		}
	}

	return s.List(ctx)
}
