package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentModel struct {
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;default:gen_random_uuid();primaryKey" json:"department_id"`

	DepartmentFacultyID uuid.UUID `gorm:"column:department_faculty_id;type:uuid;not null;index" json:"department_faculty_id"`

	DepartmentName string  `gorm:"column:department_name;type:text;not null" json:"department_name"`
	DepartmentCode *string `gorm:"column:department_code;type:varchar(16)" json:"department_code,omitempty"`

	DepartmentCreatedAt time.Time      `gorm:"column:department_created_at;type:timestamptz;not null;autoCreateTime" json:"department_created_at"`
	DepartmentUpdatedAt time.Time      `gorm:"column:department_updated_at;type:timestamptz;not null;autoUpdateTime" json:"department_updated_at"`
	DepartmentDeletedAt gorm.DeletedAt `gorm:"column:department_deleted_at;index" json:"department_deleted_at,omitempty"`
}

func (DepartmentModel) TableName() string { return "departments" }

func (m *DepartmentModel) BeforeSave(tx *gorm.DB) error {
	m.DepartmentName = strings.TrimSpace(m.DepartmentName)
	if m.DepartmentCode != nil {
		c := strings.ToUpper(strings.TrimSpace(*m.DepartmentCode))
		if c == "" {
			m.DepartmentCode = nil
		} else {
			m.DepartmentCode = &c
		}
	}
	return nil
}
