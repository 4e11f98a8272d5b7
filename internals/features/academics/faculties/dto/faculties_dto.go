package dto

import (
	"time"

	"github.com/google/uuid"

	"uniportal_backend/internals/features/academics/faculties/model"
)

// =======================
// Request DTO
// =======================

type FacultyCreateDTO struct {
	FacultyName string  `json:"faculty_name" validate:"required,min=2"`
	FacultyCode *string `json:"faculty_code,omitempty" validate:"omitempty,max=16"`
}

type DepartmentCreateDTO struct {
	DepartmentFacultyID uuid.UUID `json:"department_faculty_id" validate:"required"`
	DepartmentName      string    `json:"department_name" validate:"required,min=2"`
	DepartmentCode      *string   `json:"department_code,omitempty" validate:"omitempty,max=16"`
}

type ProgramCreateDTO struct {
	ProgramDepartmentID uuid.UUID `json:"program_department_id" validate:"required"`
	ProgramName         string    `json:"program_name" validate:"required,min=2"`
	ProgramCode         *string   `json:"program_code,omitempty" validate:"omitempty,max=16"`

	ProgramFormFee           *int `json:"program_form_fee,omitempty" validate:"omitempty,min=0"`
	ProgramUseDefaultFormFee *bool `json:"program_use_default_form_fee,omitempty"`
	ProgramAcceptanceFee     *int `json:"program_acceptance_fee,omitempty" validate:"omitempty,min=0"`

	ProgramApplicationStartDate *time.Time `json:"program_application_start_date,omitempty"`
	ProgramApplicationEndDate   *time.Time `json:"program_application_end_date,omitempty"`
}

type ProgramUpdateDTO struct {
	ProgramName *string `json:"program_name,omitempty" validate:"omitempty,min=2"`
	ProgramCode *string `json:"program_code,omitempty" validate:"omitempty,max=16"`

	ProgramFormFee           *int  `json:"program_form_fee,omitempty" validate:"omitempty,min=0"`
	ProgramUseDefaultFormFee *bool `json:"program_use_default_form_fee,omitempty"`
	ProgramAcceptanceFee     *int  `json:"program_acceptance_fee,omitempty" validate:"omitempty,min=0"`

	ProgramApplicationStartDate *time.Time `json:"program_application_start_date,omitempty"`
	ProgramApplicationEndDate   *time.Time `json:"program_application_end_date,omitempty"`
}

// =======================
// Helpers
// =======================

func (p *ProgramCreateDTO) ToModel() model.ProgramModel {
	useDefault := true
	if p.ProgramUseDefaultFormFee != nil {
		useDefault = *p.ProgramUseDefaultFormFee
	}
	return model.ProgramModel{
		ProgramDepartmentID:         p.ProgramDepartmentID,
		ProgramName:                 p.ProgramName,
		ProgramCode:                 p.ProgramCode,
		ProgramFormFee:              p.ProgramFormFee,
		ProgramUseDefaultFormFee:    useDefault,
		ProgramAcceptanceFee:        p.ProgramAcceptanceFee,
		ProgramApplicationStartDate: p.ProgramApplicationStartDate,
		ProgramApplicationEndDate:   p.ProgramApplicationEndDate,
	}
}

func (u *ProgramUpdateDTO) ApplyUpdates(ent *model.ProgramModel) {
	if u.ProgramName != nil {
		ent.ProgramName = *u.ProgramName
	}
	if u.ProgramCode != nil {
		ent.ProgramCode = u.ProgramCode
	}
	if u.ProgramFormFee != nil {
		ent.ProgramFormFee = u.ProgramFormFee
	}
	if u.ProgramUseDefaultFormFee != nil {
		ent.ProgramUseDefaultFormFee = *u.ProgramUseDefaultFormFee
	}
	if u.ProgramAcceptanceFee != nil {
		ent.ProgramAcceptanceFee = u.ProgramAcceptanceFee
	}
	if u.ProgramApplicationStartDate != nil {
		ent.ProgramApplicationStartDate = u.ProgramApplicationStartDate
	}
	if u.ProgramApplicationEndDate != nil {
		ent.ProgramApplicationEndDate = u.ProgramApplicationEndDate
	}
}
