package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "uniportal_backend/internals/features/academics/sessions/model"
)

var (
	ErrSessionNotFound = errors.New("admission session not found")
	ErrSessionClosed   = errors.New("admission session is closed")
)

// SessionConflictError: activate kalah balapan; membawa session yang menang.
type SessionConflictError struct {
	ActiveSessionID uuid.UUID
}

func (e *SessionConflictError) Error() string {
	return fmt.Sprintf("another session ended up active: %s", e.ActiveSessionID)
}

/* =========================================================
   SessionRegistry
========================================================= */

// SessionRegistry menjaga invariant: paling banyak satu session active.
type SessionRegistry struct {
	DB *gorm.DB
}

func NewSessionRegistry(db *gorm.DB) *SessionRegistry {
	return &SessionRegistry{DB: db}
}

// Activate mengaktifkan satu session dan menonaktifkan session active lain
// dalam satu transaksi. Mengembalikan session yang sebelumnya active (bila
// ada) supaya caller bisa mengirim notifikasi.
func (s *SessionRegistry) Activate(ctx context.Context, sessionID uuid.UUID) (*model.AdmissionSessionModel, error) {
	var prev *model.AdmissionSessionModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Lock target row
		var target model.AdmissionSessionModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("admission_session_id = ?", sessionID).
			First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if target.IsClosed() {
			return ErrSessionClosed
		}

		// 2) Lock & remember the currently active session (if any)
		var actives []model.AdmissionSessionModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("admission_session_status = ? AND admission_session_id <> ?", model.SessionStatusActive, sessionID).
			Find(&actives).Error; err != nil {
			return err
		}
		if len(actives) > 0 {
			p := actives[0]
			prev = &p
		}

		// 3) Deactivate every other active session
		if err := tx.Exec(`
			UPDATE admission_sessions
			   SET admission_session_status = 'inactive',
			       admission_session_updated_at = NOW()
			 WHERE admission_session_status = 'active'
			   AND admission_session_id <> ?
			   AND admission_session_deleted_at IS NULL
		`, sessionID).Error; err != nil {
			return err
		}

		// 4) Activate the target
		return tx.Exec(`
			UPDATE admission_sessions
			   SET admission_session_status = 'active',
			       admission_session_updated_at = NOW()
			 WHERE admission_session_id = ?
			   AND admission_session_deleted_at IS NULL
		`, sessionID).Error
	})
	if err != nil {
		return nil, err
	}

	// Read-after-write: kalau ada activate lain yang commit belakangan,
	// beritahu caller session mana yang akhirnya menang.
	active, err := s.ActiveSession(ctx)
	if err != nil {
		return prev, err
	}
	if active == nil || active.AdmissionSessionID != sessionID {
		winner := uuid.Nil
		if active != nil {
			winner = active.AdmissionSessionID
		}
		log.Printf("[SESSION] activate lost the race: requested=%s active=%s", sessionID, winner)
		return prev, &SessionConflictError{ActiveSessionID: winner}
	}

	return prev, nil
}

// Deactivate: status write biasa, tanpa constraint eksklusivitas.
func (s *SessionRegistry) Deactivate(ctx context.Context, sessionID uuid.UUID) error {
	return s.setStatus(ctx, sessionID, model.SessionStatusInactive)
}

// Close menutup session secara permanen (tidak bisa di-activate lagi).
func (s *SessionRegistry) Close(ctx context.Context, sessionID uuid.UUID) error {
	return s.setStatus(ctx, sessionID, model.SessionStatusClosed)
}

func (s *SessionRegistry) setStatus(ctx context.Context, sessionID uuid.UUID, status string) error {
	res := s.DB.WithContext(ctx).Exec(`
		UPDATE admission_sessions
		   SET admission_session_status = ?,
		       admission_session_updated_at = NOW()
		 WHERE admission_session_id = ?
		   AND admission_session_deleted_at IS NULL
	`, status, sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ActiveSession mengambil session yang sedang active; nil kalau tidak ada.
func (s *SessionRegistry) ActiveSession(ctx context.Context) (*model.AdmissionSessionModel, error) {
	var m model.AdmissionSessionModel
	err := s.DB.WithContext(ctx).
		Where("admission_session_status = ?", model.SessionStatusActive).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
