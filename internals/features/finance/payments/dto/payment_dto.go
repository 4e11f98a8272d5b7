package dto

import (
	"time"

	"github.com/google/uuid"

	"uniportal_backend/internals/features/finance/payments/model"
)

// =======================
// Request DTO
// =======================

type PaymentInitiateDTO struct {
	ApplicationID uuid.UUID `json:"application_id" validate:"required"`
}

// =======================
// Response DTO
// =======================

type PaymentResponseDTO struct {
	PaymentID            uuid.UUID  `json:"payment_id"`
	PaymentApplicationID uuid.UUID  `json:"payment_application_id"`
	PaymentReference     string     `json:"payment_reference"`
	PaymentType          string     `json:"payment_type"`
	PaymentStatus        string     `json:"payment_status"`
	PaymentAmount        int        `json:"payment_amount"`
	PaymentNeedsReview   bool       `json:"payment_needs_review"`
	PaymentCheckoutURL   *string    `json:"payment_checkout_url,omitempty"`
	PaymentMethod        *string    `json:"payment_method,omitempty"`
	PaymentPaidAt        *time.Time `json:"payment_paid_at,omitempty"`
	PaymentCreatedAt     time.Time  `json:"payment_created_at"`
}

type PaymentInitiatedDTO struct {
	Payment   PaymentResponseDTO `json:"payment"`
	SnapToken string             `json:"snap_token,omitempty"`
}

func FromModel(ent model.PaymentModel) PaymentResponseDTO {
	return PaymentResponseDTO{
		PaymentID:            ent.PaymentID,
		PaymentApplicationID: ent.PaymentApplicationID,
		PaymentReference:     ent.PaymentReference,
		PaymentType:          ent.PaymentType,
		PaymentStatus:        ent.PaymentStatus,
		PaymentAmount:        ent.PaymentAmount,
		PaymentNeedsReview:   ent.PaymentNeedsReview,
		PaymentCheckoutURL:   ent.PaymentCheckoutURL,
		PaymentMethod:        ent.PaymentMethod,
		PaymentPaidAt:        ent.PaymentPaidAt,
		PaymentCreatedAt:     ent.PaymentCreatedAt,
	}
}

func FromModels(list []model.PaymentModel) []PaymentResponseDTO {
	out := make([]PaymentResponseDTO, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
