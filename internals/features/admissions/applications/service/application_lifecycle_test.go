package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	facultyModel "uniportal_backend/internals/features/academics/faculties/model"
	model "uniportal_backend/internals/features/admissions/applications/model"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestCheckSubmit(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	openProgram := &facultyModel.ProgramModel{
		ProgramApplicationStartDate: timePtr(now.AddDate(0, -1, 0)),
		ProgramApplicationEndDate:   timePtr(now.AddDate(0, 1, 0)),
	}

	tests := []struct {
		name     string
		status   string
		formPaid bool
		program  *facultyModel.ProgramModel
		wantErr  error
	}{
		{
			name:     "paid draft inside window submits",
			status:   model.ApplicationStatusDraft,
			formPaid: true,
			program:  openProgram,
			wantErr:  nil,
		},
		{
			name:     "unpaid draft is blocked before anything else",
			status:   model.ApplicationStatusDraft,
			formPaid: false,
			program:  openProgram,
			wantErr:  ErrPaymentRequired,
		},
		{
			name:     "window closed blocks a paid draft",
			status:   model.ApplicationStatusDraft,
			formPaid: true,
			program: &facultyModel.ProgramModel{
				ProgramApplicationStartDate: timePtr(now.AddDate(0, -2, 0)),
				ProgramApplicationEndDate:   timePtr(now.AddDate(0, -1, 0)),
			},
			wantErr: ErrWindowClosed,
		},
		{
			name:     "window not yet open blocks a paid draft",
			status:   model.ApplicationStatusDraft,
			formPaid: true,
			program: &facultyModel.ProgramModel{
				ProgramApplicationStartDate: timePtr(now.AddDate(0, 1, 0)),
				ProgramApplicationEndDate:   timePtr(now.AddDate(0, 2, 0)),
			},
			wantErr: ErrWindowClosed,
		},
		{
			name:     "no window dates means always open",
			status:   model.ApplicationStatusDraft,
			formPaid: true,
			program:  &facultyModel.ProgramModel{},
			wantErr:  nil,
		},
		{
			name:     "resubmitting a submitted application is allowed upstream",
			status:   model.ApplicationStatusSubmitted,
			formPaid: true,
			program:  openProgram,
			wantErr:  nil,
		},
		{
			name:     "approved application cannot be submitted again",
			status:   model.ApplicationStatusApproved,
			formPaid: true,
			program:  openProgram,
			wantErr:  ErrInvalidTransition,
		},
		{
			name:     "rejected application cannot be submitted",
			status:   model.ApplicationStatusRejected,
			formPaid: true,
			program:  openProgram,
			wantErr:  ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSubmit(tt.status, tt.formPaid, tt.program, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNextReviewStatus(t *testing.T) {
	t.Run("under review can be approved", func(t *testing.T) {
		got, err := NextReviewStatus(model.ApplicationStatusUnderReview, model.ReviewDecisionApproved)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusApproved, got)
	})

	t.Run("under review can be rejected", func(t *testing.T) {
		got, err := NextReviewStatus(model.ApplicationStatusUnderReview, model.ReviewDecisionRejected)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusRejected, got)
	})

	t.Run("unknown decision", func(t *testing.T) {
		_, err := NextReviewStatus(model.ApplicationStatusUnderReview, "waitlisted")
		assert.ErrorIs(t, err, ErrInvalidDecision)
	})

	t.Run("decision on a draft", func(t *testing.T) {
		_, err := NextReviewStatus(model.ApplicationStatusDraft, model.ReviewDecisionApproved)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("decision on an already approved application", func(t *testing.T) {
		_, err := NextReviewStatus(model.ApplicationStatusApproved, model.ReviewDecisionApproved)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

/* =========================================================
   Submit number generation
========================================================= */

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestSubmit_GeneratesNumberUnderSessionLock(t *testing.T) {
	db, mock := newMockDB(t)
	lc := NewApplicationLifecycle(db)

	appID := uuid.New()
	sessionID := uuid.New()
	programID := uuid.New()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"application_id", "application_user_id", "application_session_id",
			"application_department_id", "application_program_id",
			"application_status", "application_form_paid", "application_number",
		}).AddRow(appID, uuid.New(), sessionID, uuid.New(), programID, "draft", true, nil))
	mock.ExpectQuery(`SELECT \* FROM "programs"`).
		WillReturnRows(sqlmock.NewRows([]string{"program_id"}).AddRow(programID))

	// The session row is locked before the sequence is read, so two
	// concurrent first submits in one session serialize instead of both
	// computing the same number.
	mock.ExpectQuery(`(?s)FROM admission_sessions.*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("2026/2027"))
	mock.ExpectQuery(`(?s)SELECT COALESCE\(MAX\(RIGHT\(application_number`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(41))

	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := lc.Submit(context.Background(), appID, now)
	require.NoError(t, err)
	require.NotNil(t, got.ApplicationNumber)
	assert.Equal(t, "UNI202600042", *got.ApplicationNumber)
	assert.Equal(t, model.ApplicationStatusSubmitted, got.ApplicationStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
