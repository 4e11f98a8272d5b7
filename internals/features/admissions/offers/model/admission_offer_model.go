package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =======================
// Status enum
// =======================

const (
	OfferStatusOffered  = "offered"
	OfferStatusAccepted = "accepted"
	OfferStatusDeclined = "declined"
	OfferStatusExpired  = "expired"
)

/* =========================================================
   Model: admission_offers
   Satu application maksimal satu offer (uniqueIndex).
========================================================= */

type AdmissionOfferModel struct {
	AdmissionOfferID uuid.UUID `gorm:"column:admission_offer_id;type:uuid;default:gen_random_uuid();primaryKey" json:"admission_offer_id"`

	AdmissionOfferApplicationID uuid.UUID `gorm:"column:admission_offer_application_id;type:uuid;not null;uniqueIndex" json:"admission_offer_application_id"`
	AdmissionOfferSessionID     uuid.UUID `gorm:"column:admission_offer_session_id;type:uuid;not null;index" json:"admission_offer_session_id"`
	AdmissionOfferDepartmentID  uuid.UUID `gorm:"column:admission_offer_department_id;type:uuid;not null;index" json:"admission_offer_department_id"`
	AdmissionOfferProgramID     uuid.UUID `gorm:"column:admission_offer_program_id;type:uuid;not null;index" json:"admission_offer_program_id"`

	AdmissionOfferStatus string `gorm:"column:admission_offer_status;type:varchar(16);not null;default:'offered'" json:"admission_offer_status"`

	AdmissionOfferAcceptanceFee     int        `gorm:"column:admission_offer_acceptance_fee;not null;default:0;check:admission_offer_acceptance_fee >= 0" json:"admission_offer_acceptance_fee"`
	AdmissionOfferAcceptanceFeePaid bool       `gorm:"column:admission_offer_acceptance_fee_paid;not null;default:false" json:"admission_offer_acceptance_fee_paid"`
	AdmissionOfferAccepted          bool       `gorm:"column:admission_offer_accepted;not null;default:false" json:"admission_offer_accepted"`
	AdmissionOfferDeadline          *time.Time `gorm:"column:admission_offer_deadline;type:timestamptz" json:"admission_offer_deadline,omitempty"`

	AdmissionOfferAcceptedAt *time.Time `gorm:"column:admission_offer_accepted_at;type:timestamptz" json:"admission_offer_accepted_at,omitempty"`
	AdmissionOfferDeclinedAt *time.Time `gorm:"column:admission_offer_declined_at;type:timestamptz" json:"admission_offer_declined_at,omitempty"`

	AdmissionOfferNotes *string `gorm:"column:admission_offer_notes;type:text" json:"admission_offer_notes,omitempty"`

	AdmissionOfferCreatedAt time.Time      `gorm:"column:admission_offer_created_at;type:timestamptz;not null;autoCreateTime" json:"admission_offer_created_at"`
	AdmissionOfferUpdatedAt time.Time      `gorm:"column:admission_offer_updated_at;type:timestamptz;not null;autoUpdateTime" json:"admission_offer_updated_at"`
	AdmissionOfferDeletedAt gorm.DeletedAt `gorm:"column:admission_offer_deleted_at;index" json:"admission_offer_deleted_at,omitempty"`
}

func (AdmissionOfferModel) TableName() string { return "admission_offers" }

// BeforeSave: normalisasi & jaga enum status.
func (m *AdmissionOfferModel) BeforeSave(tx *gorm.DB) error {
	if m.AdmissionOfferStatus == "" {
		m.AdmissionOfferStatus = OfferStatusOffered
	}
	m.AdmissionOfferStatus = strings.ToLower(strings.TrimSpace(m.AdmissionOfferStatus))
	return nil
}

// DisplayStatus hides a stale expiry from the applicant: a paid offer
// always reads as accepted, whatever the sweeper last wrote.
func (m *AdmissionOfferModel) DisplayStatus() string {
	if m.AdmissionOfferAcceptanceFeePaid {
		return OfferStatusAccepted
	}
	return m.AdmissionOfferStatus
}

func (m *AdmissionOfferModel) IsOpen() bool {
	return m.AdmissionOfferStatus == OfferStatusOffered
}
