package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "uniportal_backend/internals/features/admissions/offers/model"
)

var (
	ErrOfferNotFound          = errors.New("admission offer not found")
	ErrOfferExpired           = errors.New("admission offer deadline has passed")
	ErrOfferInvalidTransition = errors.New("illegal admission offer state transition")
)

/* =========================================================
   Pure acceptance rule
========================================================= */

// CheckAcceptancePayment decides whether an acceptance fee payment may
// land on an offer right now. A paid offer always yields nil so retries
// stay idempotent, whatever status the sweeper wrote meanwhile.
func CheckAcceptancePayment(status string, feePaid bool, deadline *time.Time, now time.Time) error {
	if feePaid {
		return nil
	}
	if status != model.OfferStatusOffered {
		if status == model.OfferStatusExpired {
			return ErrOfferExpired
		}
		return ErrOfferInvalidTransition
	}
	if deadline != nil && now.After(*deadline) {
		return ErrOfferExpired
	}
	return nil
}

/* =========================================================
   Service
========================================================= */

type OfferLifecycle struct {
	DB *gorm.DB
}

func NewOfferLifecycle(db *gorm.DB) *OfferLifecycle {
	return &OfferLifecycle{DB: db}
}

// MarkAcceptanceFeePaid flips an open offer to accepted once the
// acceptance fee settles. Keyed by application because payments carry
// the application, not the offer. The UPDATE itself is the guard;
// a second call on a paid offer is a silent no-op.
func (s *OfferLifecycle) MarkAcceptanceFeePaid(ctx context.Context, applicationID uuid.UUID, now time.Time) error {
	res := s.DB.WithContext(ctx).Exec(`
		UPDATE admission_offers
		SET admission_offer_status = 'accepted',
		    admission_offer_acceptance_fee_paid = TRUE,
		    admission_offer_accepted = TRUE,
		    admission_offer_accepted_at = ?,
		    admission_offer_updated_at = ?
		WHERE admission_offer_application_id = ?
		  AND admission_offer_status = 'offered'
		  AND admission_offer_deleted_at IS NULL
		  AND (admission_offer_deadline IS NULL OR admission_offer_deadline >= ?)
	`, now, now, applicationID, now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Zero rows: reload and say why.
	var ent model.AdmissionOfferModel
	if err := s.DB.WithContext(ctx).
		First(&ent, "admission_offer_application_id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfferNotFound
		}
		return err
	}
	return CheckAcceptancePayment(ent.AdmissionOfferStatus, ent.AdmissionOfferAcceptanceFeePaid, ent.AdmissionOfferDeadline, now)
}

// Decline: berlaku hanya untuk offer yang masih 'offered'.
func (s *OfferLifecycle) Decline(ctx context.Context, offerID uuid.UUID, now time.Time) (*model.AdmissionOfferModel, error) {
	res := s.DB.WithContext(ctx).Exec(`
		UPDATE admission_offers
		SET admission_offer_status = 'declined',
		    admission_offer_declined_at = ?,
		    admission_offer_updated_at = ?
		WHERE admission_offer_id = ?
		  AND admission_offer_status = 'offered'
		  AND admission_offer_deleted_at IS NULL
	`, now, now, offerID)
	if res.Error != nil {
		return nil, res.Error
	}

	var ent model.AdmissionOfferModel
	if err := s.DB.WithContext(ctx).
		First(&ent, "admission_offer_id = ?", offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	if res.RowsAffected == 0 && ent.AdmissionOfferStatus != model.OfferStatusDeclined {
		return nil, ErrOfferInvalidTransition
	}
	return &ent, nil
}

// SweepExpired marks every overdue unpaid offer as expired and returns
// how many rows turned over. The fee_paid check keeps the sweep from
// ever racing a finalized payment; running it twice is harmless.
func (s *OfferLifecycle) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Exec(`
		UPDATE admission_offers
		SET admission_offer_status = 'expired',
		    admission_offer_updated_at = ?
		WHERE admission_offer_status = 'offered'
		  AND admission_offer_acceptance_fee_paid = FALSE
		  AND admission_offer_deleted_at IS NULL
		  AND admission_offer_deadline IS NOT NULL
		  AND admission_offer_deadline < ?
	`, now, now)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
