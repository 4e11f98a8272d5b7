package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =======================
// Enums
// =======================

const (
	PaymentTypeFormPurchase  = "form_purchase"
	PaymentTypeAcceptanceFee = "acceptance_fee"
	PaymentTypeAdmissionFee  = "admission_fee"

	PaymentStatusPending    = "pending"
	PaymentStatusSuccessful = "successful"
	PaymentStatusFailed     = "failed"

	GatewayProviderMidtrans = "midtrans"
)

/* =========================================================
   Model: payments
   Reference adalah order_id di gateway; unik per payment.
========================================================= */

type PaymentModel struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`

	PaymentUserID        uuid.UUID `gorm:"column:payment_user_id;type:uuid;not null;index" json:"payment_user_id"`
	PaymentApplicationID uuid.UUID `gorm:"column:payment_application_id;type:uuid;not null;index" json:"payment_application_id"`

	PaymentReference string `gorm:"column:payment_reference;type:varchar(64);not null;uniqueIndex" json:"payment_reference"`
	PaymentType      string `gorm:"column:payment_type;type:varchar(24);not null" json:"payment_type"`
	PaymentStatus    string `gorm:"column:payment_status;type:varchar(16);not null;default:'pending'" json:"payment_status"`

	PaymentAmount int `gorm:"column:payment_amount;not null;check:payment_amount >= 0" json:"payment_amount"`

	// Set when a successful gateway event lands on an offer that already
	// expired; staff resolve these by hand.
	PaymentNeedsReview bool `gorm:"column:payment_needs_review;not null;default:false" json:"payment_needs_review"`

	PaymentGatewayProvider  string  `gorm:"column:payment_gateway_provider;type:varchar(24);not null;default:'midtrans'" json:"payment_gateway_provider"`
	PaymentGatewayReference *string `gorm:"column:payment_gateway_reference;type:text" json:"payment_gateway_reference,omitempty"`
	PaymentCheckoutURL      *string `gorm:"column:payment_checkout_url;type:text" json:"payment_checkout_url,omitempty"`
	PaymentMethod           *string `gorm:"column:payment_method;type:varchar(32)" json:"payment_method,omitempty"`

	PaymentMeta datatypes.JSON `gorm:"column:payment_meta;type:jsonb" json:"payment_meta,omitempty"`

	PaymentPaidAt   *time.Time `gorm:"column:payment_paid_at;type:timestamptz" json:"payment_paid_at,omitempty"`
	PaymentFailedAt *time.Time `gorm:"column:payment_failed_at;type:timestamptz" json:"payment_failed_at,omitempty"`

	PaymentCreatedAt time.Time      `gorm:"column:payment_created_at;type:timestamptz;not null;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time      `gorm:"column:payment_updated_at;type:timestamptz;not null;autoUpdateTime" json:"payment_updated_at"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"payment_deleted_at,omitempty"`
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) BeforeSave(tx *gorm.DB) error {
	m.PaymentReference = strings.ToUpper(strings.TrimSpace(m.PaymentReference))
	if m.PaymentStatus == "" {
		m.PaymentStatus = PaymentStatusPending
	}
	if m.PaymentGatewayProvider == "" {
		m.PaymentGatewayProvider = GatewayProviderMidtrans
	}
	return nil
}

func (m *PaymentModel) IsPending() bool {
	return m.PaymentStatus == PaymentStatusPending
}
