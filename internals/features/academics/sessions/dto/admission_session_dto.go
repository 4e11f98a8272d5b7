package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"uniportal_backend/internals/features/academics/sessions/model"
)

// =======================
// Request DTO
// =======================

type AdmissionSessionCreateDTO struct {
	AdmissionSessionAcademicYear string    `json:"admission_session_academic_year" validate:"required,min=4"`
	AdmissionSessionStartDate    time.Time `json:"admission_session_start_date"    validate:"required"`
	// gtefield agar sejalan dg DB CHECK (end >= start)
	AdmissionSessionEndDate      time.Time `json:"admission_session_end_date"      validate:"required,gtefield=AdmissionSessionStartDate"`
	AdmissionSessionFormPrice    int       `json:"admission_session_form_price"    validate:"min=0"`
	AdmissionSessionAdmissionFee int       `json:"admission_session_admission_fee" validate:"min=0"`
	// hanya inactive|closed; active wajib lewat endpoint activate
	AdmissionSessionStatus *string `json:"admission_session_status,omitempty" validate:"omitempty,oneof=inactive closed"`
}

type AdmissionSessionUpdateDTO struct {
	AdmissionSessionAcademicYear *string    `json:"admission_session_academic_year,omitempty" validate:"omitempty,min=4"`
	AdmissionSessionStartDate    *time.Time `json:"admission_session_start_date,omitempty"`
	AdmissionSessionEndDate      *time.Time `json:"admission_session_end_date,omitempty"`
	AdmissionSessionFormPrice    *int       `json:"admission_session_form_price,omitempty"    validate:"omitempty,min=0"`
	AdmissionSessionAdmissionFee *int       `json:"admission_session_admission_fee,omitempty" validate:"omitempty,min=0"`
	AdmissionSessionStatus       *string    `json:"admission_session_status,omitempty"        validate:"omitempty,oneof=inactive closed"`
}

// =======================
// Response DTO
// =======================

type AdmissionSessionResponseDTO struct {
	AdmissionSessionID           uuid.UUID `json:"admission_session_id"`
	AdmissionSessionAcademicYear string    `json:"admission_session_academic_year"`
	AdmissionSessionStartDate    time.Time `json:"admission_session_start_date"`
	AdmissionSessionEndDate      time.Time `json:"admission_session_end_date"`
	AdmissionSessionFormPrice    int       `json:"admission_session_form_price"`
	AdmissionSessionAdmissionFee int       `json:"admission_session_admission_fee"`
	AdmissionSessionStatus       string    `json:"admission_session_status"`
	AdmissionSessionCreatedAt    time.Time `json:"admission_session_created_at"`
	AdmissionSessionUpdatedAt    time.Time `json:"admission_session_updated_at"`
}

// =======================
// Helpers
// =======================

func (p *AdmissionSessionCreateDTO) Normalize() {
	p.AdmissionSessionAcademicYear = strings.TrimSpace(p.AdmissionSessionAcademicYear)
}

func (p *AdmissionSessionCreateDTO) ToModel() model.AdmissionSessionModel {
	status := model.SessionStatusInactive
	if p.AdmissionSessionStatus != nil {
		status = *p.AdmissionSessionStatus
	}
	return model.AdmissionSessionModel{
		AdmissionSessionAcademicYear: p.AdmissionSessionAcademicYear,
		AdmissionSessionStartDate:    p.AdmissionSessionStartDate,
		AdmissionSessionEndDate:      p.AdmissionSessionEndDate,
		AdmissionSessionFormPrice:    p.AdmissionSessionFormPrice,
		AdmissionSessionAdmissionFee: p.AdmissionSessionAdmissionFee,
		AdmissionSessionStatus:       status,
	}
}

func (u *AdmissionSessionUpdateDTO) ApplyUpdates(ent *model.AdmissionSessionModel) {
	if u.AdmissionSessionAcademicYear != nil {
		ent.AdmissionSessionAcademicYear = strings.TrimSpace(*u.AdmissionSessionAcademicYear)
	}
	if u.AdmissionSessionStartDate != nil {
		ent.AdmissionSessionStartDate = *u.AdmissionSessionStartDate
	}
	if u.AdmissionSessionEndDate != nil {
		ent.AdmissionSessionEndDate = *u.AdmissionSessionEndDate
	}
	if u.AdmissionSessionFormPrice != nil {
		ent.AdmissionSessionFormPrice = *u.AdmissionSessionFormPrice
	}
	if u.AdmissionSessionAdmissionFee != nil {
		ent.AdmissionSessionAdmissionFee = *u.AdmissionSessionAdmissionFee
	}
	if u.AdmissionSessionStatus != nil {
		ent.AdmissionSessionStatus = *u.AdmissionSessionStatus
	}
}

// Mapper entity -> response
func FromModel(ent model.AdmissionSessionModel) AdmissionSessionResponseDTO {
	return AdmissionSessionResponseDTO{
		AdmissionSessionID:           ent.AdmissionSessionID,
		AdmissionSessionAcademicYear: ent.AdmissionSessionAcademicYear,
		AdmissionSessionStartDate:    ent.AdmissionSessionStartDate,
		AdmissionSessionEndDate:      ent.AdmissionSessionEndDate,
		AdmissionSessionFormPrice:    ent.AdmissionSessionFormPrice,
		AdmissionSessionAdmissionFee: ent.AdmissionSessionAdmissionFee,
		AdmissionSessionStatus:       ent.AdmissionSessionStatus,
		AdmissionSessionCreatedAt:    ent.AdmissionSessionCreatedAt,
		AdmissionSessionUpdatedAt:    ent.AdmissionSessionUpdatedAt,
	}
}

func FromModels(list []model.AdmissionSessionModel) []AdmissionSessionResponseDTO {
	out := make([]AdmissionSessionResponseDTO, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
