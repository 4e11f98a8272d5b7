package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Keys ===================== */

// Global fee settings read by the fee resolver.
const (
	KeyFormAmount    = "form_amount"
	KeyAcceptanceFee = "acceptance_fee"
)

/* ===================== Model ===================== */

type SettingModel struct {
	SettingID uuid.UUID `gorm:"column:setting_id;type:uuid;default:gen_random_uuid();primaryKey" json:"setting_id"`

	SettingKey   string `gorm:"column:setting_key;type:varchar(64);not null;uniqueIndex" json:"setting_key"`
	SettingValue string `gorm:"column:setting_value;type:text;not null" json:"setting_value"`

	SettingCreatedAt time.Time      `gorm:"column:setting_created_at;type:timestamptz;not null;autoCreateTime" json:"setting_created_at"`
	SettingUpdatedAt time.Time      `gorm:"column:setting_updated_at;type:timestamptz;not null;autoUpdateTime" json:"setting_updated_at"`
	SettingDeletedAt gorm.DeletedAt `gorm:"column:setting_deleted_at;index" json:"setting_deleted_at,omitempty"`
}

func (SettingModel) TableName() string { return "settings" }

func (m *SettingModel) BeforeSave(tx *gorm.DB) error {
	m.SettingKey = strings.ToLower(strings.TrimSpace(m.SettingKey))
	m.SettingValue = strings.TrimSpace(m.SettingValue)
	return nil
}
