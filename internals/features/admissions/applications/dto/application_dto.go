package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"uniportal_backend/internals/features/admissions/applications/model"
)

// =======================
// Request DTO
// =======================

type ApplicationCreateDTO struct {
	ApplicationSessionID    uuid.UUID `json:"application_session_id"    validate:"required"`
	ApplicationDepartmentID uuid.UUID `json:"application_department_id" validate:"required"`
	ApplicationProgramID    uuid.UUID `json:"application_program_id"    validate:"required"`
	ApplicationEmail        string    `json:"application_email"         validate:"required,email"`
	ApplicationFullName     string    `json:"application_full_name"     validate:"required,min=2"`
}

type ApplicationUpdateDTO struct {
	ApplicationDepartmentID *uuid.UUID `json:"application_department_id,omitempty"`
	ApplicationProgramID    *uuid.UUID `json:"application_program_id,omitempty"`
	ApplicationEmail        *string    `json:"application_email,omitempty"    validate:"omitempty,email"`
	ApplicationFullName     *string    `json:"application_full_name,omitempty" validate:"omitempty,min=2"`
}

type ApplicationReviewDTO struct {
	Decision   string `json:"decision"    validate:"required,oneof=approved rejected"`
	AdminNotes string `json:"admin_notes" validate:"omitempty,max=2000"`
}

// =======================
// Response DTO
// =======================

type ApplicationResponseDTO struct {
	ApplicationID           uuid.UUID  `json:"application_id"`
	ApplicationUserID       uuid.UUID  `json:"application_user_id"`
	ApplicationSessionID    uuid.UUID  `json:"application_session_id"`
	ApplicationDepartmentID uuid.UUID  `json:"application_department_id"`
	ApplicationProgramID    uuid.UUID  `json:"application_program_id"`
	ApplicationNumber       *string    `json:"application_number,omitempty"`
	ApplicationStatus       string     `json:"application_status"`
	ApplicationFormPaid     bool       `json:"application_form_paid"`
	ApplicationEmail        string     `json:"application_email"`
	ApplicationFullName     string     `json:"application_full_name"`
	ApplicationAdminNotes   *string    `json:"application_admin_notes,omitempty"`
	ApplicationSubmittedAt  *time.Time `json:"application_submitted_at,omitempty"`
	ApplicationReviewedAt   *time.Time `json:"application_reviewed_at,omitempty"`
	ApplicationCreatedAt    time.Time  `json:"application_created_at"`
	ApplicationUpdatedAt    time.Time  `json:"application_updated_at"`
}

// =======================
// Helpers
// =======================

func (p *ApplicationCreateDTO) Normalize() {
	p.ApplicationEmail = strings.ToLower(strings.TrimSpace(p.ApplicationEmail))
	p.ApplicationFullName = strings.TrimSpace(p.ApplicationFullName)
}

func (p *ApplicationCreateDTO) ToModel(userID uuid.UUID) model.ApplicationModel {
	return model.ApplicationModel{
		ApplicationUserID:       userID,
		ApplicationSessionID:    p.ApplicationSessionID,
		ApplicationDepartmentID: p.ApplicationDepartmentID,
		ApplicationProgramID:    p.ApplicationProgramID,
		ApplicationEmail:        p.ApplicationEmail,
		ApplicationFullName:     p.ApplicationFullName,
		ApplicationStatus:       model.ApplicationStatusDraft,
	}
}

func (u *ApplicationUpdateDTO) ApplyUpdates(ent *model.ApplicationModel) {
	if u.ApplicationDepartmentID != nil {
		ent.ApplicationDepartmentID = *u.ApplicationDepartmentID
	}
	if u.ApplicationProgramID != nil {
		ent.ApplicationProgramID = *u.ApplicationProgramID
	}
	if u.ApplicationEmail != nil {
		ent.ApplicationEmail = strings.ToLower(strings.TrimSpace(*u.ApplicationEmail))
	}
	if u.ApplicationFullName != nil {
		ent.ApplicationFullName = strings.TrimSpace(*u.ApplicationFullName)
	}
}

func FromModel(ent model.ApplicationModel) ApplicationResponseDTO {
	return ApplicationResponseDTO{
		ApplicationID:           ent.ApplicationID,
		ApplicationUserID:       ent.ApplicationUserID,
		ApplicationSessionID:    ent.ApplicationSessionID,
		ApplicationDepartmentID: ent.ApplicationDepartmentID,
		ApplicationProgramID:    ent.ApplicationProgramID,
		ApplicationNumber:       ent.ApplicationNumber,
		ApplicationStatus:       ent.ApplicationStatus,
		ApplicationFormPaid:     ent.ApplicationFormPaid,
		ApplicationEmail:        ent.ApplicationEmail,
		ApplicationFullName:     ent.ApplicationFullName,
		ApplicationAdminNotes:   ent.ApplicationAdminNotes,
		ApplicationSubmittedAt:  ent.ApplicationSubmittedAt,
		ApplicationReviewedAt:   ent.ApplicationReviewedAt,
		ApplicationCreatedAt:    ent.ApplicationCreatedAt,
		ApplicationUpdatedAt:    ent.ApplicationUpdatedAt,
	}
}

func FromModels(list []model.ApplicationModel) []ApplicationResponseDTO {
	out := make([]ApplicationResponseDTO, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
