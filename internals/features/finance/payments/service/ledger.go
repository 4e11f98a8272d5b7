package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	applicationService "uniportal_backend/internals/features/admissions/applications/service"
	offerModel "uniportal_backend/internals/features/admissions/offers/model"
	offerService "uniportal_backend/internals/features/admissions/offers/service"
	model "uniportal_backend/internals/features/finance/payments/model"
	helper "uniportal_backend/internals/helpers"
)

var (
	ErrDuplicateReference = errors.New("payment reference already exists")
	ErrUnknownReference   = errors.New("payment reference not found")
	ErrAlreadyPaid        = errors.New("this fee has already been paid")
	ErrNoOpenOffer        = errors.New("no open admission offer for this application")
)

/* =========================================================
   Pure gateway status mapping
========================================================= */

// MapGatewayStatus collapses Midtrans transaction statuses into the
// ledger's three states. Anything unrecognized stays pending so a
// later retry can still settle it.
func MapGatewayStatus(transactionStatus, fraudStatus string) string {
	ts := strings.ToLower(strings.TrimSpace(transactionStatus))
	fraud := strings.ToLower(strings.TrimSpace(fraudStatus))

	switch ts {
	case "capture":
		if fraud == "accept" {
			return model.PaymentStatusSuccessful
		}
		if fraud == "challenge" {
			return model.PaymentStatusPending
		}
		return model.PaymentStatusFailed
	case "settlement":
		return model.PaymentStatusSuccessful
	case "pending":
		return model.PaymentStatusPending
	case "deny", "cancel", "expire", "failure":
		return model.PaymentStatusFailed
	case "refund", "partial_refund":
		return model.PaymentStatusFailed
	}
	return model.PaymentStatusPending
}

/* =========================================================
   Service
========================================================= */

type PaymentLedger struct {
	DB *gorm.DB
}

func NewPaymentLedger(db *gorm.DB) *PaymentLedger {
	return &PaymentLedger{DB: db}
}

// Initiate opens a pending payment with a fresh unique reference.
// A still-pending payment for the same application and type is reused
// instead of stacking a second order at the gateway.
func (s *PaymentLedger) Initiate(ctx context.Context, userID, applicationID uuid.UUID, paymentType string, amount int) (*model.PaymentModel, error) {
	var existing model.PaymentModel
	err := s.DB.WithContext(ctx).
		Where("payment_application_id = ? AND payment_type = ? AND payment_status = ?",
			applicationID, paymentType, model.PaymentStatusPending).
		Order("payment_created_at DESC").
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ent := model.PaymentModel{
		PaymentUserID:          userID,
		PaymentApplicationID:   applicationID,
		PaymentReference:       helper.GenReference("PAY"),
		PaymentType:            paymentType,
		PaymentStatus:          model.PaymentStatusPending,
		PaymentAmount:          amount,
		PaymentGatewayProvider: model.GatewayProviderMidtrans,
	}
	if err := s.DB.WithContext(ctx).Create(&ent).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateReference
		}
		return nil, err
	}
	return &ent, nil
}

// FindByReference: lookup untuk webhook & polling.
func (s *PaymentLedger) FindByReference(ctx context.Context, reference string) (*model.PaymentModel, error) {
	var ent model.PaymentModel
	err := s.DB.WithContext(ctx).
		First(&ent, "payment_reference = ?", strings.ToUpper(strings.TrimSpace(reference))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownReference
		}
		return nil, err
	}
	return &ent, nil
}

// Finalize settles a pending payment exactly once. The status-guarded
// UPDATE is the whole concurrency story: webhook retries and races all
// collapse into RowsAffected==0, which reads back as a no-op. The UPDATE
// and the side effects commit as one transaction: if marking the
// application or offer fails, the payment rolls back to pending and the
// next gateway retry replays the whole finalize.
func (s *PaymentLedger) Finalize(ctx context.Context, reference, newStatus string, gatewayRef, method *string, now time.Time) (*model.PaymentModel, error) {
	ent, err := s.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if newStatus == model.PaymentStatusPending {
		return ent, nil
	}

	var paidAt, failedAt *time.Time
	switch newStatus {
	case model.PaymentStatusSuccessful:
		paidAt = &now
	case model.PaymentStatusFailed:
		failedAt = &now
	default:
		return ent, nil
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE payments
			SET payment_status = ?,
			    payment_paid_at = COALESCE(?, payment_paid_at),
			    payment_failed_at = COALESCE(?, payment_failed_at),
			    payment_gateway_reference = COALESCE(?, payment_gateway_reference),
			    payment_method = COALESCE(?, payment_method),
			    payment_updated_at = ?
			WHERE payment_reference = ?
			  AND payment_status = 'pending'
			  AND payment_deleted_at IS NULL
		`, newStatus, paidAt, failedAt, gatewayRef, method, now, ent.PaymentReference)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already finalized by an earlier delivery.
			return nil
		}

		if newStatus == model.PaymentStatusSuccessful {
			return s.applySideEffects(ctx, tx, ent, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindByReference(ctx, reference)
}

// applySideEffects runs inside the finalize transaction, on the one
// call that actually flipped the row.
func (s *PaymentLedger) applySideEffects(ctx context.Context, tx *gorm.DB, ent *model.PaymentModel, now time.Time) error {
	switch ent.PaymentType {
	case model.PaymentTypeFormPurchase:
		if err := applicationService.NewApplicationLifecycle(tx).MarkFormPaid(ctx, ent.PaymentApplicationID); err != nil {
			return err
		}

	case model.PaymentTypeAcceptanceFee:
		err := offerService.NewOfferLifecycle(tx).MarkAcceptanceFeePaid(ctx, ent.PaymentApplicationID, now)
		if errors.Is(err, offerService.ErrOfferExpired) {
			// Money landed on a dead offer. Keep the payment successful,
			// flag it, and let staff arbitrate.
			log.Printf("[CONFLICT] acceptance fee %s paid after offer expiry (application=%s)",
				ent.PaymentReference, ent.PaymentApplicationID)
			return tx.Model(&model.PaymentModel{}).
				Where("payment_reference = ?", ent.PaymentReference).
				Update("payment_needs_review", true).Error
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// OfferAcceptanceAmount: nominal acceptance fee diambil dari offer-nya.
func (s *PaymentLedger) OfferAcceptanceAmount(ctx context.Context, applicationID uuid.UUID) (int, error) {
	var offer offerModel.AdmissionOfferModel
	err := s.DB.WithContext(ctx).
		First(&offer, "admission_offer_application_id = ?", applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNoOpenOffer
		}
		return 0, err
	}
	if offer.AdmissionOfferAcceptanceFeePaid {
		return 0, ErrAlreadyPaid
	}
	if !offer.IsOpen() {
		return 0, ErrNoOpenOffer
	}
	return offer.AdmissionOfferAcceptanceFee, nil
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique constraint")
}
