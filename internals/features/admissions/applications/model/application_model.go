package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	ApplicationStatusDraft       = "draft"
	ApplicationStatusSubmitted   = "submitted"
	ApplicationStatusUnderReview = "under_review"
	ApplicationStatusApproved    = "approved"
	ApplicationStatusRejected    = "rejected"
)

const (
	ReviewDecisionApproved = "approved"
	ReviewDecisionRejected = "rejected"
)

/* ===================== Model ===================== */

type ApplicationModel struct {
	ApplicationID uuid.UUID `gorm:"column:application_id;type:uuid;default:gen_random_uuid();primaryKey" json:"application_id"`

	ApplicationUserID       uuid.UUID `gorm:"column:application_user_id;type:uuid;not null;index" json:"application_user_id"`
	ApplicationSessionID    uuid.UUID `gorm:"column:application_session_id;type:uuid;not null;index" json:"application_session_id"`
	ApplicationDepartmentID uuid.UUID `gorm:"column:application_department_id;type:uuid;not null;index" json:"application_department_id"`
	ApplicationProgramID    uuid.UUID `gorm:"column:application_program_id;type:uuid;not null;index" json:"application_program_id"`

	// Nomor dibuat sekali saat submit pertama; tidak pernah di-regenerate.
	ApplicationNumber *string `gorm:"column:application_number;type:varchar(32);uniqueIndex" json:"application_number,omitempty"`

	ApplicationStatus   string `gorm:"column:application_status;type:varchar(16);not null;default:'draft'" json:"application_status"`
	ApplicationFormPaid bool   `gorm:"column:application_form_paid;not null;default:false" json:"application_form_paid"`

	ApplicationEmail      string  `gorm:"column:application_email;type:text;not null" json:"application_email"`
	ApplicationFullName   string  `gorm:"column:application_full_name;type:text;not null" json:"application_full_name"`
	ApplicationAdminNotes *string `gorm:"column:application_admin_notes;type:text" json:"application_admin_notes,omitempty"`

	ApplicationSubmittedAt *time.Time `gorm:"column:application_submitted_at;type:timestamptz" json:"application_submitted_at,omitempty"`
	ApplicationReviewedAt  *time.Time `gorm:"column:application_reviewed_at;type:timestamptz" json:"application_reviewed_at,omitempty"`

	ApplicationCreatedAt time.Time      `gorm:"column:application_created_at;type:timestamptz;not null;autoCreateTime" json:"application_created_at"`
	ApplicationUpdatedAt time.Time      `gorm:"column:application_updated_at;type:timestamptz;not null;autoUpdateTime" json:"application_updated_at"`
	ApplicationDeletedAt gorm.DeletedAt `gorm:"column:application_deleted_at;index" json:"application_deleted_at,omitempty"`
}

func (ApplicationModel) TableName() string { return "applications" }

/* ===================== Hooks ===================== */

func (m *ApplicationModel) BeforeSave(tx *gorm.DB) error {
	m.ApplicationEmail = strings.ToLower(strings.TrimSpace(m.ApplicationEmail))
	m.ApplicationFullName = strings.TrimSpace(m.ApplicationFullName)
	if m.ApplicationStatus == "" {
		m.ApplicationStatus = ApplicationStatusDraft
	}
	return nil
}

/* ===================== Helpers ===================== */

func (m *ApplicationModel) IsDraft() bool {
	return m.ApplicationStatus == ApplicationStatusDraft
}

// IsTerminal: approved/rejected tidak boleh ditransisikan lagi.
func (m *ApplicationModel) IsTerminal() bool {
	return m.ApplicationStatus == ApplicationStatusApproved ||
		m.ApplicationStatus == ApplicationStatusRejected
}
