package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacultyModel struct {
	FacultyID uuid.UUID `gorm:"column:faculty_id;type:uuid;default:gen_random_uuid();primaryKey" json:"faculty_id"`

	FacultyName string  `gorm:"column:faculty_name;type:text;not null;uniqueIndex" json:"faculty_name"`
	FacultyCode *string `gorm:"column:faculty_code;type:varchar(16)" json:"faculty_code,omitempty"`

	FacultyCreatedAt time.Time      `gorm:"column:faculty_created_at;type:timestamptz;not null;autoCreateTime" json:"faculty_created_at"`
	FacultyUpdatedAt time.Time      `gorm:"column:faculty_updated_at;type:timestamptz;not null;autoUpdateTime" json:"faculty_updated_at"`
	FacultyDeletedAt gorm.DeletedAt `gorm:"column:faculty_deleted_at;index" json:"faculty_deleted_at,omitempty"`
}

func (FacultyModel) TableName() string { return "faculties" }

func (m *FacultyModel) BeforeSave(tx *gorm.DB) error {
	m.FacultyName = strings.TrimSpace(m.FacultyName)
	if m.FacultyCode != nil {
		c := strings.ToUpper(strings.TrimSpace(*m.FacultyCode))
		if c == "" {
			m.FacultyCode = nil
		} else {
			m.FacultyCode = &c
		}
	}
	return nil
}
