package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	SessionStatusActive   = "active"
	SessionStatusInactive = "inactive"
	SessionStatusClosed   = "closed"
)

/* ===================== Model ===================== */

type AdmissionSessionModel struct {
	AdmissionSessionID uuid.UUID `gorm:"column:admission_session_id;type:uuid;default:gen_random_uuid();primaryKey" json:"admission_session_id"`

	// Example academic_year: "2026/2027"
	AdmissionSessionAcademicYear string `gorm:"column:admission_session_academic_year;type:text;not null;uniqueIndex" json:"admission_session_academic_year"`

	AdmissionSessionStartDate time.Time `gorm:"column:admission_session_start_date;type:timestamptz;not null" json:"admission_session_start_date"`
	AdmissionSessionEndDate   time.Time `gorm:"column:admission_session_end_date;type:timestamptz;not null" json:"admission_session_end_date"`

	AdmissionSessionFormPrice    int `gorm:"column:admission_session_form_price;not null;default:0;check:admission_session_form_price >= 0" json:"admission_session_form_price"`
	AdmissionSessionAdmissionFee int `gorm:"column:admission_session_admission_fee;not null;default:0;check:admission_session_admission_fee >= 0" json:"admission_session_admission_fee"`

	// Invariant: paling banyak satu session berstatus active (dijaga SessionRegistry.Activate)
	AdmissionSessionStatus string `gorm:"column:admission_session_status;type:varchar(16);not null;default:'inactive'" json:"admission_session_status"`

	AdmissionSessionCreatedAt time.Time      `gorm:"column:admission_session_created_at;type:timestamptz;not null;autoCreateTime" json:"admission_session_created_at"`
	AdmissionSessionUpdatedAt time.Time      `gorm:"column:admission_session_updated_at;type:timestamptz;not null;autoUpdateTime" json:"admission_session_updated_at"`
	AdmissionSessionDeletedAt gorm.DeletedAt `gorm:"column:admission_session_deleted_at;index" json:"admission_session_deleted_at,omitempty"`
}

func (AdmissionSessionModel) TableName() string { return "admission_sessions" }

/* ===================== Hooks ===================== */

func (m *AdmissionSessionModel) BeforeSave(tx *gorm.DB) error {
	// Mirror CHECK: end >= start
	if m.AdmissionSessionEndDate.Before(m.AdmissionSessionStartDate) {
		return errors.New("admission_session_end_date must be >= admission_session_start_date")
	}

	m.AdmissionSessionAcademicYear = strings.TrimSpace(m.AdmissionSessionAcademicYear)

	switch m.AdmissionSessionStatus {
	case SessionStatusActive, SessionStatusInactive, SessionStatusClosed:
	case "":
		m.AdmissionSessionStatus = SessionStatusInactive
	default:
		return errors.New("invalid admission_session_status")
	}
	return nil
}

/* ===================== Helpers ===================== */

func (m *AdmissionSessionModel) IsActive() bool {
	return m.AdmissionSessionStatus == SessionStatusActive
}

func (m *AdmissionSessionModel) IsClosed() bool {
	return m.AdmissionSessionStatus == SessionStatusClosed
}
