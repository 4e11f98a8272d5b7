package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	facultyModel "uniportal_backend/internals/features/academics/faculties/model"
	model "uniportal_backend/internals/features/admissions/applications/model"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrPaymentRequired     = errors.New("form payment is required before submission")
	ErrWindowClosed        = errors.New("application window is closed for this program")
	ErrInvalidTransition   = errors.New("illegal application state transition")
	ErrInvalidDecision     = errors.New("review decision must be approved or rejected")
)

/* =========================================================
   Pure transition rules
========================================================= */

// CheckSubmit memutuskan apakah sebuah application boleh disubmit sekarang.
// Dipisah dari I/O supaya aturan gating bisa dites langsung.
func CheckSubmit(status string, formPaid bool, program *facultyModel.ProgramModel, now time.Time) error {
	switch status {
	case model.ApplicationStatusDraft:
	case model.ApplicationStatusSubmitted:
		// resubmit dianggap no-op di layer atas; bukan pelanggaran
	default:
		return ErrInvalidTransition
	}
	if !formPaid {
		return ErrPaymentRequired
	}
	if program != nil && !program.WindowOpen(now) {
		return ErrWindowClosed
	}
	return nil
}

// NextReviewStatus memetakan keputusan review ke status tujuan.
func NextReviewStatus(current, decision string) (string, error) {
	if current != model.ApplicationStatusSubmitted && current != model.ApplicationStatusUnderReview {
		return "", ErrInvalidTransition
	}
	switch decision {
	case model.ReviewDecisionApproved:
		return model.ApplicationStatusApproved, nil
	case model.ReviewDecisionRejected:
		return model.ApplicationStatusRejected, nil
	default:
		return "", ErrInvalidDecision
	}
}

/* =========================================================
   ApplicationLifecycle
========================================================= */

type ApplicationLifecycle struct {
	DB *gorm.DB
}

func NewApplicationLifecycle(db *gorm.DB) *ApplicationLifecycle {
	return &ApplicationLifecycle{DB: db}
}

// Submit memvalidasi gating (form paid + window program) lalu menandai
// application submitted. Nomor application dibuat sekali, idempoten:
// submit ulang tidak pernah regenerate nomor.
func (s *ApplicationLifecycle) Submit(ctx context.Context, applicationID uuid.UUID, now time.Time) (*model.ApplicationModel, error) {
	var app model.ApplicationModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("application_id = ?", applicationID).
			First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		// Sudah submitted → no-op idempoten
		if app.ApplicationStatus == model.ApplicationStatusSubmitted {
			return nil
		}

		var program facultyModel.ProgramModel
		if err := tx.
			Where("program_id = ?", app.ApplicationProgramID).
			First(&program).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := CheckSubmit(app.ApplicationStatus, app.ApplicationFormPaid, &program, now); err != nil {
			return err
		}

		if app.ApplicationNumber == nil {
			num, err := s.nextApplicationNumber(ctx, tx, app.ApplicationSessionID, now)
			if err != nil {
				return err
			}
			app.ApplicationNumber = &num
		}

		app.ApplicationStatus = model.ApplicationStatusSubmitted
		app.ApplicationSubmittedAt = &now
		return tx.Save(&app).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// nextApplicationNumber membentuk nomor "UNI<year4><seq5>" per session.
// Baris session di-lock FOR UPDATE dulu: dua first-submit yang berebut di
// satu session jadi serial, MAX di bawah tidak pernah dihitung dua kali
// dengan nilai yang sama.
func (s *ApplicationLifecycle) nextApplicationNumber(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, now time.Time) (string, error) {
	var yearRaw string
	if err := tx.WithContext(ctx).Raw(`
		SELECT COALESCE(admission_session_academic_year, '')
		FROM admission_sessions
		WHERE admission_session_id = ?
		LIMIT 1
		FOR UPDATE
	`, sessionID).Scan(&yearRaw).Error; err != nil {
		return "", fmt.Errorf("failed to load session year: %w", err)
	}

	year4 := fmt.Sprintf("%04d", now.Year())
	if y := strings.TrimSpace(yearRaw); len(y) >= 4 {
		year4 = y[:4]
	}
	prefix := "UNI" + year4

	var lastSeq int
	if err := tx.WithContext(ctx).Raw(`
		SELECT COALESCE(MAX(RIGHT(application_number, 5)::int), 0)
		FROM applications
		WHERE application_session_id = ?
		  AND application_number IS NOT NULL
		  AND RIGHT(application_number, 5) ~ '^[0-9]+$'
	`, sessionID).Scan(&lastSeq).Error; err != nil {
		return "", fmt.Errorf("failed to compute application number sequence: %w", err)
	}

	return fmt.Sprintf("%s%05d", prefix, lastSeq+1), nil
}

// MarkUnderReview: submitted → under_review (staff membuka berkas).
func (s *ApplicationLifecycle) MarkUnderReview(ctx context.Context, applicationID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Exec(`
		UPDATE applications
		   SET application_status = 'under_review',
		       application_updated_at = NOW()
		 WHERE application_id = ?
		   AND application_status = 'submitted'
		   AND application_deleted_at IS NULL
	`, applicationID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Review menyimpan keputusan staff. Hanya sah dari submitted/under_review;
// approved dan rejected terminal.
func (s *ApplicationLifecycle) Review(ctx context.Context, applicationID uuid.UUID, decision, notes string, now time.Time) (*model.ApplicationModel, error) {
	var app model.ApplicationModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("application_id = ?", applicationID).
			First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		next, err := NextReviewStatus(app.ApplicationStatus, decision)
		if err != nil {
			return err
		}

		app.ApplicationStatus = next
		app.ApplicationReviewedAt = &now
		if strings.TrimSpace(notes) != "" {
			app.ApplicationAdminNotes = &notes
		}
		return tx.Save(&app).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// MarkFormPaid dipanggil PaymentLedger saat form_purchase sukses.
func (s *ApplicationLifecycle) MarkFormPaid(ctx context.Context, applicationID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Exec(`
		UPDATE applications
		   SET application_form_paid = TRUE,
		       application_updated_at = NOW()
		 WHERE application_id = ?
		   AND application_deleted_at IS NULL
	`, applicationID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
