package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	model "uniportal_backend/internals/features/finance/settings/model"
)

// Get mengambil value setting; kalau tidak ada, kembalikan def.
func Get(ctx context.Context, db *gorm.DB, key, def string) (string, error) {
	var m model.SettingModel
	err := db.WithContext(ctx).
		Where("setting_key = ?", strings.ToLower(strings.TrimSpace(key))).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return def, nil
		}
		return def, err
	}
	return m.SettingValue, nil
}

// GetInt seperti Get tapi parse ke int; value non-numerik dianggap tidak ada.
func GetInt(ctx context.Context, db *gorm.DB, key string, def int) (int, error) {
	raw, err := Get(ctx, db, key, "")
	if err != nil {
		return def, err
	}
	if raw == "" {
		return def, nil
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil {
		return def, nil
	}
	return n, nil
}

// Set upsert satu key (dipakai controller admin settings).
func Set(ctx context.Context, db *gorm.DB, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	res := db.WithContext(ctx).Model(&model.SettingModel{}).
		Where("setting_key = ?", key).
		Update("setting_value", strings.TrimSpace(value))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.WithContext(ctx).Create(&model.SettingModel{
			SettingKey:   key,
			SettingValue: value,
		}).Error
	}
	return nil
}
