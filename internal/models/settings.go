package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recognized site setting keys.
const (
	SettingPhone            = "phone"
	SettingEmail            = "email"
	SettingAddress          = "address"
	SettingScheduleWeekdays = "schedule_weekdays"
	SettingScheduleSunday   = "schedule_sunday"
)

// SettingKeys is the fixed set of setting rows, in the order they are written.
var SettingKeys = []string{
	SettingPhone,
	SettingEmail,
	SettingAddress,
	SettingScheduleWeekdays,
	SettingScheduleSunday,
}

// IsSettingKey reports whether key names a recognized setting.
func IsSettingKey(key string) bool {
	for _, k := range SettingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SiteSetting is a key/value row shown on the public site. Rows are seeded
// once; the console only updates values.
type SiteSetting struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string    `gorm:"size:50;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *SiteSetting) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (SiteSetting) TableName() string {
	return "site_settings"
}
