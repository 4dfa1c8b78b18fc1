package repositories

import (
	"errors"
	"time"

	"boardcafe/web/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingRepository struct {
	DB *gorm.DB
}

func (r *SettingRepository) GetSetting(key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	err := r.DB.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpsertSetting inserts the setting or updates its value on key conflict.
func (r *SettingRepository) UpsertSetting(key, value, description string) error {
	setting := models.SystemSetting{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   time.Now(),
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
