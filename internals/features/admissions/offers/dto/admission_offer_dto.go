package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"uniportal_backend/internals/features/admissions/offers/model"
)

// =======================
// Roster upload DTO
// =======================

// Satu batch mengadmisi ke satu department dengan fee & deadline seragam.
type OfferRosterRowDTO struct {
	ApplicationNumber string `json:"application_number" validate:"omitempty,max=32"`
	Email             string `json:"email"              validate:"omitempty,email"`
}

type OfferRosterUploadDTO struct {
	SessionID    uuid.UUID `json:"session_id"    validate:"required"`
	DepartmentID uuid.UUID `json:"department_id" validate:"required"`

	// AcceptanceFee overrides the fee resolver chain when set.
	AcceptanceFee *int `json:"acceptance_fee,omitempty" validate:"omitempty,min=0"`
	DeadlineDays  int  `json:"deadline_days"            validate:"omitempty,min=1,max=365"`

	Rows []OfferRosterRowDTO `json:"rows" validate:"required,min=1,max=1000,dive"`
}

func (p *OfferRosterUploadDTO) Normalize() {
	for i := range p.Rows {
		p.Rows[i].ApplicationNumber = strings.ToUpper(strings.TrimSpace(p.Rows[i].ApplicationNumber))
		p.Rows[i].Email = strings.ToLower(strings.TrimSpace(p.Rows[i].Email))
	}
}

// =======================
// Roster result DTO
// =======================

type OfferRosterErrorDTO struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type OfferRosterWarningDTO struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type OfferRosterResultDTO struct {
	CreatedOffers   []AdmissionOfferResponseDTO `json:"created_offers"`
	AlreadyExisting []string                    `json:"already_existing"`
	Errors          []OfferRosterErrorDTO       `json:"errors"`
	Warnings        []OfferRosterWarningDTO     `json:"warnings"`
}

// =======================
// Response DTO
// =======================

type AdmissionOfferResponseDTO struct {
	AdmissionOfferID                uuid.UUID  `json:"admission_offer_id"`
	AdmissionOfferApplicationID     uuid.UUID  `json:"admission_offer_application_id"`
	AdmissionOfferSessionID         uuid.UUID  `json:"admission_offer_session_id"`
	AdmissionOfferDepartmentID      uuid.UUID  `json:"admission_offer_department_id"`
	AdmissionOfferProgramID         uuid.UUID  `json:"admission_offer_program_id"`
	AdmissionOfferStatus            string     `json:"admission_offer_status"`
	AdmissionOfferAcceptanceFee     int        `json:"admission_offer_acceptance_fee"`
	AdmissionOfferAcceptanceFeePaid bool       `json:"admission_offer_acceptance_fee_paid"`
	AdmissionOfferAccepted          bool       `json:"admission_offer_accepted"`
	AdmissionOfferDeadline          *time.Time `json:"admission_offer_deadline,omitempty"`
	AdmissionOfferAcceptedAt        *time.Time `json:"admission_offer_accepted_at,omitempty"`
	AdmissionOfferDeclinedAt        *time.Time `json:"admission_offer_declined_at,omitempty"`
	AdmissionOfferNotes             *string    `json:"admission_offer_notes,omitempty"`
	AdmissionOfferCreatedAt         time.Time  `json:"admission_offer_created_at"`
}

func FromModel(ent model.AdmissionOfferModel) AdmissionOfferResponseDTO {
	return AdmissionOfferResponseDTO{
		AdmissionOfferID:                ent.AdmissionOfferID,
		AdmissionOfferApplicationID:     ent.AdmissionOfferApplicationID,
		AdmissionOfferSessionID:         ent.AdmissionOfferSessionID,
		AdmissionOfferDepartmentID:      ent.AdmissionOfferDepartmentID,
		AdmissionOfferProgramID:         ent.AdmissionOfferProgramID,
		AdmissionOfferStatus:            ent.DisplayStatus(),
		AdmissionOfferAcceptanceFee:     ent.AdmissionOfferAcceptanceFee,
		AdmissionOfferAcceptanceFeePaid: ent.AdmissionOfferAcceptanceFeePaid,
		AdmissionOfferAccepted:          ent.AdmissionOfferAccepted,
		AdmissionOfferDeadline:          ent.AdmissionOfferDeadline,
		AdmissionOfferAcceptedAt:        ent.AdmissionOfferAcceptedAt,
		AdmissionOfferDeclinedAt:        ent.AdmissionOfferDeclinedAt,
		AdmissionOfferNotes:             ent.AdmissionOfferNotes,
		AdmissionOfferCreatedAt:         ent.AdmissionOfferCreatedAt,
	}
}

func FromModels(list []model.AdmissionOfferModel) []AdmissionOfferResponseDTO {
	out := make([]AdmissionOfferResponseDTO, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
