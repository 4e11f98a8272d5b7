package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "uniportal_backend/internals/features/academics/sessions/model"
)

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

func sessionRows(id uuid.UUID, year, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"admission_session_id", "admission_session_academic_year", "admission_session_status",
	}).AddRow(id, year, status)
}

func TestActivate_DeactivatesPreviousAndReturnsIt(t *testing.T) {
	db, mock := newMockDB(t)
	reg := NewSessionRegistry(db)

	target := uuid.New()
	prevID := uuid.New()

	mock.ExpectBegin()
	// Lock target
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sessionRows(target, "2026/2027", model.SessionStatusInactive))
	// Lock current actives
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sessionRows(prevID, "2025/2026", model.SessionStatusActive))
	mock.ExpectExec(`UPDATE admission_sessions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE admission_sessions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	// Read-after-write confirms we won
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sessionRows(target, "2026/2027", model.SessionStatusActive))

	prev, err := reg.Activate(context.Background(), target)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, prevID, prev.AdmissionSessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivate_NoPreviousActive(t *testing.T) {
	db, mock := newMockDB(t)
	reg := NewSessionRegistry(db)

	target := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sessionRows(target, "2026/2027", model.SessionStatusInactive))
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sqlmock.NewRows([]string{"admission_session_id"}))
	mock.ExpectExec(`UPDATE admission_sessions`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE admission_sessions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sessionRows(target, "2026/2027", model.SessionStatusActive))

	prev, err := reg.Activate(context.Background(), target)
	require.NoError(t, err)
	assert.Nil(t, prev)
}

func TestActivate_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	reg := NewSessionRegistry(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sqlmock.NewRows([]string{"admission_session_id"}))
	mock.ExpectRollback()

	_, err := reg.Activate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestActivate_ClosedSession(t *testing.T) {
	db, mock := newMockDB(t)
	reg := NewSessionRegistry(db)

	target := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sessionRows(target, "2024/2025", model.SessionStatusClosed))
	mock.ExpectRollback()

	_, err := reg.Activate(context.Background(), target)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestActivate_LosesRaceReportsWinner(t *testing.T) {
	db, mock := newMockDB(t)
	reg := NewSessionRegistry(db)

	target := uuid.New()
	winner := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sessionRows(target, "2026/2027", model.SessionStatusInactive))
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sqlmock.NewRows([]string{"admission_session_id"}))
	mock.ExpectExec(`UPDATE admission_sessions`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE admission_sessions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	// Another activate committed after ours.
	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sessionRows(winner, "2027/2028", model.SessionStatusActive))

	_, err := reg.Activate(context.Background(), target)

	var conflict *SessionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, winner, conflict.ActiveSessionID)
}

func TestClose_GuardedUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	reg := NewSessionRegistry(db)

	t.Run("existing session closes", func(t *testing.T) {
		mock.ExpectExec(`UPDATE admission_sessions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, reg.Close(context.Background(), uuid.New()))
	})

	t.Run("missing session", func(t *testing.T) {
		mock.ExpectExec(`UPDATE admission_sessions`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, reg.Close(context.Background(), uuid.New()), ErrSessionNotFound)
	})
}

func TestActiveSession_NoneIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	reg := NewSessionRegistry(db)

	mock.ExpectQuery(`SELECT \* FROM "admission_sessions"`).
		WillReturnRows(sqlmock.NewRows([]string{"admission_session_id"}))

	got, err := reg.ActiveSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}
