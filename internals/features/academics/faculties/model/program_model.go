package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgramModel struct {
	ProgramID uuid.UUID `gorm:"column:program_id;type:uuid;default:gen_random_uuid();primaryKey" json:"program_id"`

	ProgramDepartmentID uuid.UUID `gorm:"column:program_department_id;type:uuid;not null;index" json:"program_department_id"`

	ProgramName string  `gorm:"column:program_name;type:text;not null" json:"program_name"`
	ProgramCode *string `gorm:"column:program_code;type:varchar(16)" json:"program_code,omitempty"`

	// Fee overrides; nil berarti ikut global settings
	ProgramFormFee           *int `gorm:"column:program_form_fee;check:program_form_fee >= 0" json:"program_form_fee,omitempty"`
	ProgramUseDefaultFormFee bool `gorm:"column:program_use_default_form_fee;not null;default:true" json:"program_use_default_form_fee"`
	ProgramAcceptanceFee     *int `gorm:"column:program_acceptance_fee;check:program_acceptance_fee >= 0" json:"program_acceptance_fee,omitempty"`

	// Application window (opsional); nil berarti selalu terbuka
	ProgramApplicationStartDate *time.Time `gorm:"column:program_application_start_date;type:timestamptz" json:"program_application_start_date,omitempty"`
	ProgramApplicationEndDate   *time.Time `gorm:"column:program_application_end_date;type:timestamptz" json:"program_application_end_date,omitempty"`

	ProgramCreatedAt time.Time      `gorm:"column:program_created_at;type:timestamptz;not null;autoCreateTime" json:"program_created_at"`
	ProgramUpdatedAt time.Time      `gorm:"column:program_updated_at;type:timestamptz;not null;autoUpdateTime" json:"program_updated_at"`
	ProgramDeletedAt gorm.DeletedAt `gorm:"column:program_deleted_at;index" json:"program_deleted_at,omitempty"`
}

func (ProgramModel) TableName() string { return "programs" }

func (m *ProgramModel) BeforeSave(tx *gorm.DB) error {
	m.ProgramName = strings.TrimSpace(m.ProgramName)
	if m.ProgramCode != nil {
		c := strings.ToUpper(strings.TrimSpace(*m.ProgramCode))
		if c == "" {
			m.ProgramCode = nil
		} else {
			m.ProgramCode = &c
		}
	}
	if m.ProgramApplicationStartDate != nil && m.ProgramApplicationEndDate != nil &&
		m.ProgramApplicationEndDate.Before(*m.ProgramApplicationStartDate) {
		return errors.New("program_application_end_date must be >= program_application_start_date")
	}
	return nil
}

// WindowOpen melaporkan apakah "now" berada dalam application window program.
// Window yang tidak diisi dianggap selalu terbuka.
func (m *ProgramModel) WindowOpen(now time.Time) bool {
	if m.ProgramApplicationStartDate != nil && now.Before(*m.ProgramApplicationStartDate) {
		return false
	}
	if m.ProgramApplicationEndDate != nil && now.After(*m.ProgramApplicationEndDate) {
		return false
	}
	return true
}
