package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "uniportal_backend/internals/features/admissions/offers/dto"
)

func TestDepartmentMismatchWarning(t *testing.T) {
	targetID := uuid.New()
	otherID := uuid.New()

	t.Run("same department id is silent", func(t *testing.T) {
		msg, flag := DepartmentMismatchWarning("UNI202600042", targetID, targetID, "Computer Science", "Computer Science")
		assert.False(t, flag)
		assert.Empty(t, msg)
	})

	t.Run("distinct ids sharing a name still warn", func(t *testing.T) {
		msg, flag := DepartmentMismatchWarning("UNI202600042", targetID, otherID, "Mathematics", "Mathematics")
		assert.True(t, flag)
		assert.Equal(t, `UNI202600042: admitted into "Mathematics" but applied to "Mathematics"`, msg)
	})

	t.Run("different departments warn with student and both names", func(t *testing.T) {
		msg, flag := DepartmentMismatchWarning("Ada Obi", targetID, otherID, "Computer Science", "Mathematics")
		assert.True(t, flag)
		assert.Equal(t, `Ada Obi: admitted into "Computer Science" but applied to "Mathematics"`, msg)
	})

	t.Run("unresolvable application department falls back to its id", func(t *testing.T) {
		msg, flag := DepartmentMismatchWarning("Ada Obi", targetID, otherID, "Computer Science", "")
		assert.True(t, flag)
		assert.Equal(t, fmt.Sprintf(`Ada Obi: admitted into "Computer Science" but applied to %q`, otherID.String()), msg)
	})
}

func TestRowIdentifier(t *testing.T) {
	t.Run("application number preferred", func(t *testing.T) {
		row := dto.OfferRosterRowDTO{ApplicationNumber: "UNI202600042", Email: "ada@uniportal.edu.ng"}
		assert.Equal(t, "UNI202600042", RowIdentifier(row))
	})

	t.Run("email when number missing", func(t *testing.T) {
		row := dto.OfferRosterRowDTO{Email: "ada@uniportal.edu.ng"}
		assert.Equal(t, "ada@uniportal.edu.ng", RowIdentifier(row))
	})
}

/* =========================================================
   UploadOffers batch behaviour
========================================================= */

func applicationRow(appID, sessionID, deptID, programID uuid.UUID, number string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"application_id", "application_session_id", "application_department_id",
		"application_program_id", "application_number", "application_email",
	}).AddRow(appID, sessionID, deptID, programID, number, "ada@uniportal.edu.ng")
}

func departmentRow(id uuid.UUID, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"department_id", "department_name"}).AddRow(id, name)
}

func emptySettings() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"setting_key", "setting_value"})
}

func TestUploadOffers_DepartmentNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	rec := NewOfferReconciler(db)

	mock.ExpectQuery(`SELECT \* FROM "departments"`).
		WillReturnRows(sqlmock.NewRows([]string{"department_id"}))

	_, err := rec.UploadOffers(context.Background(), uuid.New(), uuid.New(), nil, 0,
		[]dto.OfferRosterRowDTO{{ApplicationNumber: "UNI202600001"}}, time.Now())
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestUploadOffers_UnknownNumberContinuesInOrder(t *testing.T) {
	db, mock := newMockDB(t)
	rec := NewOfferReconciler(db)

	sessionID := uuid.New()
	deptID := uuid.New()
	programID := uuid.New()
	appID := uuid.New()
	fee := 25000

	mock.ExpectQuery(`SELECT \* FROM "departments"`).
		WillReturnRows(departmentRow(deptID, "Computer Science"))
	mock.ExpectQuery(`SELECT \* FROM "settings"`).
		WillReturnRows(emptySettings())

	// Row 1 matches nothing and must not stop the batch.
	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"application_id"}))

	// Row 2 goes through.
	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(applicationRow(appID, sessionID, deptID, programID, "UNI202600001"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "admission_offers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "programs"`).
		WillReturnRows(sqlmock.NewRows([]string{"program_id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "admission_offers"`).
		WillReturnRows(sqlmock.NewRows([]string{"admission_offer_id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	result, err := rec.UploadOffers(context.Background(), sessionID, deptID, &fee, 0,
		[]dto.OfferRosterRowDTO{
			{ApplicationNumber: "UNI202699999"},
			{ApplicationNumber: "UNI202600001"},
		}, time.Now())
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "UNI202699999")

	require.Len(t, result.CreatedOffers, 1)
	assert.Equal(t, appID, result.CreatedOffers[0].AdmissionOfferApplicationID)
	assert.Equal(t, fee, result.CreatedOffers[0].AdmissionOfferAcceptanceFee)
	assert.Empty(t, result.Warnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadOffers_ReUploadSkipsExisting(t *testing.T) {
	db, mock := newMockDB(t)
	rec := NewOfferReconciler(db)

	sessionID := uuid.New()
	deptID := uuid.New()
	fee := 25000

	mock.ExpectQuery(`SELECT \* FROM "departments"`).
		WillReturnRows(departmentRow(deptID, "Computer Science"))
	mock.ExpectQuery(`SELECT \* FROM "settings"`).
		WillReturnRows(emptySettings())

	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(applicationRow(uuid.New(), sessionID, deptID, uuid.New(), "UNI202600001"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "admission_offers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	result, err := rec.UploadOffers(context.Background(), sessionID, deptID, &fee, 0,
		[]dto.OfferRosterRowDTO{{ApplicationNumber: "UNI202600001"}}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"UNI202600001"}, result.AlreadyExisting)
	assert.Empty(t, result.CreatedOffers)
	assert.Empty(t, result.Errors)
	// No INSERT was expected: the skip happens before any write.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadOffers_DeadlineAndMismatchWarning(t *testing.T) {
	db, mock := newMockDB(t)
	rec := NewOfferReconciler(db)

	sessionID := uuid.New()
	deptID := uuid.New()
	appDeptID := uuid.New()
	fee := 25000
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "departments"`).
		WillReturnRows(departmentRow(deptID, "Computer Science"))
	mock.ExpectQuery(`SELECT \* FROM "settings"`).
		WillReturnRows(emptySettings())

	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(applicationRow(uuid.New(), sessionID, appDeptID, uuid.New(), "UNI202600001"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "admission_offers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "departments"`).
		WillReturnRows(departmentRow(appDeptID, "Mathematics"))
	mock.ExpectQuery(`SELECT \* FROM "programs"`).
		WillReturnRows(sqlmock.NewRows([]string{"program_id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "admission_offers"`).
		WillReturnRows(sqlmock.NewRows([]string{"admission_offer_id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	result, err := rec.UploadOffers(context.Background(), sessionID, deptID, &fee, 7,
		[]dto.OfferRosterRowDTO{{ApplicationNumber: "UNI202600001"}}, now)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 1, result.Warnings[0].Row)
	assert.Equal(t, `UNI202600001: admitted into "Computer Science" but applied to "Mathematics"`, result.Warnings[0].Message)

	require.Len(t, result.CreatedOffers, 1)
	created := result.CreatedOffers[0]
	assert.Equal(t, deptID, created.AdmissionOfferDepartmentID)
	require.NotNil(t, created.AdmissionOfferDeadline)
	assert.True(t, created.AdmissionOfferDeadline.Equal(now.AddDate(0, 0, 7)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
