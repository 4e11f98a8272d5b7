package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GatewayEventStatusReceived  = "received"
	GatewayEventStatusProcessed = "processed"
	GatewayEventStatusFailed    = "failed"
)

/* =========================================================
   Model: payment_gateway_events
   Audit trail webhook; satu baris per notifikasi masuk.
========================================================= */

type PaymentGatewayEventModel struct {
	PaymentGatewayEventID uuid.UUID `gorm:"column:payment_gateway_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_gateway_event_id"`

	PaymentGatewayEventPaymentID *uuid.UUID `gorm:"column:payment_gateway_event_payment_id;type:uuid;index" json:"payment_gateway_event_payment_id,omitempty"`

	PaymentGatewayEventProvider  string  `gorm:"column:payment_gateway_event_provider;type:varchar(24);not null" json:"payment_gateway_event_provider"`
	PaymentGatewayEventType      *string `gorm:"column:payment_gateway_event_type;type:varchar(32)" json:"payment_gateway_event_type,omitempty"`
	PaymentGatewayEventReference *string `gorm:"column:payment_gateway_event_reference;type:varchar(64);index" json:"payment_gateway_event_reference,omitempty"`

	PaymentGatewayEventHeaders   datatypes.JSON `gorm:"column:payment_gateway_event_headers;type:jsonb" json:"payment_gateway_event_headers,omitempty"`
	PaymentGatewayEventPayload   datatypes.JSON `gorm:"column:payment_gateway_event_payload;type:jsonb" json:"payment_gateway_event_payload,omitempty"`
	PaymentGatewayEventSignature *string        `gorm:"column:payment_gateway_event_signature;type:text" json:"payment_gateway_event_signature,omitempty"`

	PaymentGatewayEventStatus string  `gorm:"column:payment_gateway_event_status;type:varchar(16);not null;default:'received'" json:"payment_gateway_event_status"`
	PaymentGatewayEventError  *string `gorm:"column:payment_gateway_event_error;type:text" json:"payment_gateway_event_error,omitempty"`

	PaymentGatewayEventProcessedAt *time.Time `gorm:"column:payment_gateway_event_processed_at;type:timestamptz" json:"payment_gateway_event_processed_at,omitempty"`

	PaymentGatewayEventCreatedAt time.Time      `gorm:"column:payment_gateway_event_created_at;type:timestamptz;not null;autoCreateTime" json:"payment_gateway_event_created_at"`
	PaymentGatewayEventDeletedAt gorm.DeletedAt `gorm:"column:payment_gateway_event_deleted_at;index" json:"payment_gateway_event_deleted_at,omitempty"`
}

func (PaymentGatewayEventModel) TableName() string { return "payment_gateway_events" }
